package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var splitDocName string

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a standardized document using the persisted zone mapping",
	Long: `Split divides a standardized document into per-zone documents under
interim/<city>/<doc>/, according to the page-split artifact. The artifact is
revalidated against the document first, so stale or hand-broken mappings
fail here instead of producing bad splits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cityFlag == "" || splitDocName == "" {
			return fmt.Errorf("--city and --doc are required")
		}

		p, err := newPipeline(false, false)
		if err != nil {
			return err
		}

		zones, err := p.Split(cityFlag, splitDocName)
		if err != nil {
			return err
		}
		for _, zone := range zones {
			fmt.Printf("  %s: %d pages\n", zone.Zone, len(zone.Pages))
		}
		return nil
	},
}

func init() {
	splitCmd.Flags().StringVar(&cityFlag, "city", "", "city the document belongs to (required)")
	splitCmd.Flags().StringVar(&splitDocName, "doc", "", "document name (required)")

	rootCmd.AddCommand(splitCmd)
}
