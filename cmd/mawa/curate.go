package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mawa-labs/mawa/internal/curate"
)

var (
	curateZoning         string
	curateIncludeContext bool
)

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Strip non-regulatory content from split zone documents",
	Long: `Curate removes low-value content (tables of contents, pagination,
watermarks, blank pages) from every zone document of a zoning plan,
rewriting the files in place. Rules come from the city's configured rule
file when present, otherwise from the embedded defaults.

PADD and presentation sections are dropped by default; pass
--include-context-sections to keep them as analysis context.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cityFlag == "" || curateZoning == "" {
			return fmt.Errorf("--city and --doc are required")
		}

		p, err := newPipeline(false, false)
		if err != nil {
			return err
		}

		n, err := p.Curate(cityFlag, curateZoning, curate.Options{
			IncludeContextSections: curateIncludeContext,
		})
		if err != nil {
			return err
		}
		fmt.Printf("curated %d zone documents for %s/%s\n", n, cityFlag, curateZoning)
		return nil
	},
}

func init() {
	curateCmd.Flags().StringVar(&cityFlag, "city", "", "city the document belongs to (required)")
	curateCmd.Flags().StringVar(&curateZoning, "doc", "", "zoning plan document name (required)")
	curateCmd.Flags().BoolVar(&curateIncludeContext, "include-context-sections", false, "keep PADD and presentation sections")

	rootCmd.AddCommand(curateCmd)
}
