package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/mawa-labs/mawa/internal/document"
	"github.com/mawa-labs/mawa/internal/providers"
	"github.com/mawa-labs/mawa/internal/schema"
)

const analysisSystemPrompt = `You analyse the règlement of a French local
land-use plan (PLU) for a single zone. Extract every normative rule into a
structure of chapters, sections and rules. Each rule carries "contenu", the
rule text in French, and "source_ref", the article or page it was taken
from. When dispositions générales are provided, apply them only where the
zone text defers to them. Answer with JSON only, matching the provided
schema.`

// Analyze extracts the structured regulatory rules of one zone document,
// optionally prepending the zoning plan's dispositions générales as context,
// and saves the result under the analysis tree. The LLM response must
// validate against the analysis schema before anything is written.
func (p *Pipeline) Analyze(ctx context.Context, city, zoning, zone string, withGeneral bool) error {
	if p.client == nil {
		return fmt.Errorf("no analysis client configured")
	}

	doc, err := loadDocument(p.home.ZoneDocumentPath(city, zoning, zone))
	if err != nil {
		return err
	}

	var general *document.Document
	if withGeneral && zone != string(document.DocTypeDG) {
		general, err = loadDocument(p.home.ZoneDocumentPath(city, zoning, string(document.DocTypeDG)))
		if err != nil {
			p.logger.Warn("no dispositions générales document, analysing zone alone",
				"city", city, "zoning", zoning, "error", err)
			general = nil
		}
	}

	responseSchema, err := schema.Raw(schema.ZoneAnalysis)
	if err != nil {
		return err
	}

	result, err := p.client.Chat(ctx, &providers.ChatRequest{
		Model: p.model,
		Messages: []providers.Message{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: analysisPrompt(doc, general)},
		},
		ResponseFormat: &providers.ResponseFormat{
			Type:       "json_schema",
			JSONSchema: responseSchema,
		},
	})
	if err != nil {
		return fmt.Errorf("analysis failed for %s/%s/%s: %w", city, zoning, zone, err)
	}

	if err := schema.Validate(schema.ZoneAnalysis, result.ParsedJSON); err != nil {
		return fmt.Errorf("analysis response for %s/%s/%s rejected: %w", city, zoning, zone, err)
	}

	outPath := p.home.AnalysisPath(city, zoning, zone)
	if err := saveJSON(outPath, result.ParsedJSON); err != nil {
		return err
	}

	p.logger.Info("zone analysis saved",
		"city", city,
		"zoning", zoning,
		"zone", zone,
		"model", result.ModelUsed,
		"tokens", result.TotalTokens,
		"path", outPath)

	return nil
}

// analysisPrompt renders the zone text, page by page, optionally preceded by
// the dispositions générales.
func analysisPrompt(doc, general *document.Document) string {
	var b strings.Builder

	if general != nil {
		b.WriteString("Dispositions générales:\n\n")
		writePages(&b, general)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Zone %s (%s, %s):\n\n", doc.Zone, doc.City, doc.Zoning)
	writePages(&b, doc)

	return b.String()
}

func writePages(b *strings.Builder, doc *document.Document) {
	for _, page := range doc.Pages {
		fmt.Fprintf(b, "Page %d:\n", page.PageNumber)
		for _, block := range page.Blocks {
			b.WriteString(block.Text)
			b.WriteString("\n\n")
		}
	}
}
