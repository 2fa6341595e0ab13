package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	analyzeZoning      string
	analyzeZone        string
	analyzeWithGeneral bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract structured regulatory rules from a curated zone document",
	Long: `Analyze sends one curated zone document to the analysis model and saves
the structured rules under analysis/<city>/<doc>/<zone>.json. The response
must validate against the analysis schema before anything is written.

With --with-general, the zoning plan's dispositions générales document is
included as context for zones that defer to the general rules.

Examples:
  mawa analyze --city bordeaux --doc reglement --zone UA
  mawa analyze --city bordeaux --doc reglement --zone UB --with-general`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cityFlag == "" || analyzeZoning == "" || analyzeZone == "" {
			return fmt.Errorf("--city, --doc and --zone are required")
		}

		p, err := newPipeline(false, true)
		if err != nil {
			return err
		}

		if err := p.Analyze(cmd.Context(), cityFlag, analyzeZoning, analyzeZone, analyzeWithGeneral); err != nil {
			return err
		}
		fmt.Printf("analysis saved for %s/%s/%s\n", cityFlag, analyzeZoning, analyzeZone)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&cityFlag, "city", "", "city the document belongs to (required)")
	analyzeCmd.Flags().StringVar(&analyzeZoning, "doc", "", "zoning plan document name (required)")
	analyzeCmd.Flags().StringVar(&analyzeZone, "zone", "", "zone identifier (required)")
	analyzeCmd.Flags().BoolVar(&analyzeWithGeneral, "with-general", false, "include dispositions générales as analysis context")

	rootCmd.AddCommand(analyzeCmd)
}
