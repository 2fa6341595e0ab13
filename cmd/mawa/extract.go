package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mawa-labs/mawa/internal/document"
	"github.com/mawa-labs/mawa/internal/pipeline"
)

var (
	extractDocName     string
	extractDocType     string
	extractVersionDate string
	extractForce       bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "OCR a source PLU and standardize it into the data tree",
	Long: `Extract runs the first pipeline leg for one document: stage the PDF,
OCR it, standardize the raw response and deduplicate repeated content.

The raw OCR response is checkpointed under ocr/<city>/ so re-runs never
repeat the provider call; pass --force to re-OCR anyway.

Examples:
  mawa extract --city bordeaux reglement.pdf
  mawa extract --city bordeaux --doc reglement --force
  mawa extract --city nantes --doc-type DG dispositions.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cityFlag == "" {
			return fmt.Errorf("--city is required")
		}
		docType, err := document.ParseDocType(extractDocType)
		if err != nil {
			return err
		}

		pdfPath := ""
		if len(args) == 1 {
			pdfPath = args[0]
		}
		if pdfPath == "" && extractDocName == "" {
			return fmt.Errorf("provide a PDF file or --doc for an already staged document")
		}

		p, err := newPipeline(true, false)
		if err != nil {
			return err
		}

		doc, err := p.Extract(cmd.Context(), pipeline.ExtractRequest{
			City:        cityFlag,
			DocName:     extractDocName,
			PDFPath:     pdfPath,
			DocType:     docType,
			VersionDate: extractVersionDate,
			Force:       extractForce,
		})
		if err != nil {
			return err
		}

		fmt.Printf("extracted %s/%s: %d pages, %d assets\n",
			doc.City, doc.Name, len(doc.Pages), len(doc.Assets))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&cityFlag, "city", "", "city the document belongs to (required)")
	extractCmd.Flags().StringVar(&extractDocName, "doc", "", "document name (default: derived from the PDF filename)")
	extractCmd.Flags().StringVar(&extractDocType, "doc-type", "PLU_AND_DG", "document type: DG, PLU or PLU_AND_DG")
	extractCmd.Flags().StringVar(&extractVersionDate, "version-date", "", "publication date of the source PLU")
	extractCmd.Flags().BoolVar(&extractForce, "force", false, "re-run OCR even if a checkpoint exists")

	rootCmd.AddCommand(extractCmd)
}
