package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	transformDocName       string
	transformForce         bool
	transformSkipZoneSplit bool
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Infer the zone mapping and split the document into zones",
	Long: `Transform runs zone inference on a standardized document, persists the
page-split artifact and splits the document into one file per zone.

The artifact (standardized/<city>/<doc>.page_split.json) is plain JSON and
may be corrected by hand when inference gets a boundary wrong; re-run with
--skip-zone-split to apply the corrected artifact without calling the model
again.

Examples:
  mawa transform --city bordeaux --doc reglement
  mawa transform --city bordeaux --doc reglement --skip-zone-split`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cityFlag == "" || transformDocName == "" {
			return fmt.Errorf("--city and --doc are required")
		}

		p, err := newPipeline(false, !transformSkipZoneSplit)
		if err != nil {
			return err
		}

		if !transformSkipZoneSplit {
			artifact, err := p.FindZones(cmd.Context(), cityFlag, transformDocName, transformForce)
			if err != nil {
				return err
			}
			fmt.Printf("zone mapping for %s/%s: %d zones\n",
				cityFlag, transformDocName, len(artifact.Zones))
		}

		zones, err := p.Split(cityFlag, transformDocName)
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
	transformCmd.Flags().StringVar(&cityFlag, "city", "", "city the document belongs to (required)")
	transformCmd.Flags().StringVar(&transformDocName, "doc", "", "document name (required)")
	transformCmd.Flags().BoolVar(&transformForce, "force", false, "re-run inference even if an artifact exists")
	transformCmd.Flags().BoolVar(&transformSkipZoneSplit, "skip-zone-split", false, "split using the existing artifact without calling the model")

	rootCmd.AddCommand(transformCmd)
}
