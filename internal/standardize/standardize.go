// Package standardize converts raw OCR responses into the canonical
// document model. It is a pure transform: no I/O, no logging, deterministic
// for a given input.
package standardize

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mawa-labs/mawa/internal/document"
	"github.com/mawa-labs/mawa/internal/providers"
)

// SchemaMismatchError reports malformed OCR input. Non-recoverable locally;
// carries page and field context for the caller.
type SchemaMismatchError struct {
	DocName string
	Page    int // 1-based page number, 0 when document-level
	Field   string
	Reason  string
}

func (e *SchemaMismatchError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("schema mismatch in %s page %d: %s (%s)", e.DocName, e.Page, e.Field, e.Reason)
	}
	return fmt.Sprintf("schema mismatch in %s: %s (%s)", e.DocName, e.Field, e.Reason)
}

// Request identifies the source document being standardized.
type Request struct {
	City        string
	DocName     string
	DocType     document.DocType
	VersionDate string
}

// Standardize converts a raw OCR response into a canonical Document.
// Input page N maps to PageNumber N+1 with no reordering; markdown is split
// into blocks on blank lines, preserving reading order; embedded images
// become assets in the document asset table with per-page references.
func Standardize(resp *providers.OCRResponse, req Request) (*document.Document, error) {
	if resp == nil || len(resp.Pages) == 0 {
		return nil, &SchemaMismatchError{DocName: req.DocName, Field: "pages", Reason: "no pages in OCR response"}
	}

	doc := &document.Document{
		City:        req.City,
		Name:        req.DocName,
		DocType:     req.DocType,
		VersionDate: req.VersionDate,
		Pages:       make([]document.Page, 0, len(resp.Pages)),
	}

	for i, raw := range resp.Pages {
		pageNum := i + 1
		if strings.TrimSpace(raw.Markdown) == "" {
			return nil, &SchemaMismatchError{
				DocName: req.DocName,
				Page:    pageNum,
				Field:   "markdown",
				Reason:  "page has no text regions",
			}
		}

		page := document.Page{
			PageNumber: pageNum,
			Blocks:     splitBlocks(raw.Markdown),
			Dimensions: document.Dimensions{
				DPI:    raw.Dimensions.DPI,
				Width:  raw.Dimensions.Width,
				Height: raw.Dimensions.Height,
			},
		}

		for _, img := range raw.Images {
			asset, err := decodeAsset(img, pageNum)
			if err != nil {
				return nil, &SchemaMismatchError{
					DocName: req.DocName,
					Page:    pageNum,
					Field:   "images",
					Reason:  err.Error(),
				}
			}
			doc.Assets = append(doc.Assets, asset)
			page.Assets = append(page.Assets, document.AssetRef{ID: asset.ID})
		}

		doc.Pages = append(doc.Pages, page)
	}

	doc.ModelMetadata = map[string]any{"model": resp.Model}
	if resp.UsageInfo != nil {
		doc.ModelMetadata["pages_processed"] = resp.UsageInfo.PagesProcessed
		if resp.UsageInfo.DocSizeBytes > 0 {
			doc.ModelMetadata["doc_size_bytes"] = resp.UsageInfo.DocSizeBytes
		}
	}

	return doc, nil
}

// splitBlocks cuts page markdown into blocks on blank lines, tagging each
// block with a structural kind.
func splitBlocks(markdown string) []document.Block {
	parts := strings.Split(markdown, "\n\n")
	blocks := make([]document.Block, 0, len(parts))
	for _, part := range parts {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		blocks = append(blocks, document.Block{Text: text, Kind: classify(text)})
	}
	return blocks
}

func classify(text string) document.BlockKind {
	switch {
	case strings.HasPrefix(text, "#"):
		return document.KindHeading
	case strings.HasPrefix(text, "|"):
		return document.KindTable
	case strings.HasPrefix(text, "!["):
		return document.KindCaption
	default:
		return document.KindParagraph
	}
}

// decodeAsset converts a provider image into a document asset. The base64
// payload may carry a data URL prefix.
func decodeAsset(img providers.OCRImage, pageNum int) (document.Asset, error) {
	if img.ID == "" {
		return document.Asset{}, fmt.Errorf("image missing id")
	}

	asset := document.Asset{
		ID:               img.ID,
		OriginPageNumber: pageNum,
		Format:           formatFromID(img.ID),
	}

	if img.ImageBase64 != "" {
		payload := img.ImageBase64
		if idx := strings.Index(payload, ";base64,"); idx >= 0 {
			payload = payload[idx+len(";base64,"):]
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return document.Asset{}, fmt.Errorf("image %s: invalid base64: %w", img.ID, err)
		}
		asset.Data = data
	}

	return asset, nil
}

func formatFromID(id string) string {
	if idx := strings.LastIndex(id, "."); idx >= 0 && idx < len(id)-1 {
		return id[idx+1:]
	}
	return ""
}
