package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/avast/retry-go/v4"

	"github.com/mawa-labs/mawa/internal/dedupe"
	"github.com/mawa-labs/mawa/internal/document"
	"github.com/mawa-labs/mawa/internal/ingest"
	"github.com/mawa-labs/mawa/internal/providers"
	"github.com/mawa-labs/mawa/internal/standardize"
)

// ExtractRequest identifies the source document to OCR and standardize.
type ExtractRequest struct {
	City        string
	DocName     string            // Derived from PDFPath if empty
	PDFPath     string            // Source PDF; may be empty if already staged
	DocType     document.DocType  // DG, PLU or PLU_AND_DG
	VersionDate string            // Publication date of the source PLU
	Force       bool              // Re-run OCR even if a checkpoint exists
}

// Extract runs the first pipeline leg: stage the PDF, OCR it, standardize
// the raw response into a canonical document and deduplicate repeated blocks
// and assets. The raw OCR response is checkpointed before standardization so
// a schema failure never costs a provider round trip.
func (p *Pipeline) Extract(ctx context.Context, req ExtractRequest) (*document.Document, error) {
	docName := req.DocName

	if req.PDFPath != "" {
		staged, err := ingest.Stage(p.home, ingest.Request{
			PDFPath: req.PDFPath,
			City:    req.City,
			DocName: req.DocName,
			Logger:  p.logger,
		})
		if err != nil {
			return nil, err
		}
		docName = staged.DocName
	}
	if docName == "" {
		return nil, fmt.Errorf("no document name provided")
	}

	resp, err := p.ocrDocument(ctx, req.City, docName, req.Force)
	if err != nil {
		return nil, err
	}

	doc, err := standardize.Standardize(resp, standardize.Request{
		City:        req.City,
		DocName:     docName,
		DocType:     req.DocType,
		VersionDate: req.VersionDate,
	})
	if err != nil {
		return nil, err
	}

	doc = dedupe.Apply(doc)

	outPath := p.home.StandardizedPath(req.City, docName)
	if err := saveJSON(outPath, doc); err != nil {
		return nil, err
	}

	p.logger.Info("extract complete",
		"city", req.City,
		"doc", docName,
		"pages", len(doc.Pages),
		"assets", len(doc.Assets),
		"path", outPath)

	return doc, nil
}

// ocrDocument returns the raw OCR response for a staged PDF, reusing the
// on-disk checkpoint unless force is set.
func (p *Pipeline) ocrDocument(ctx context.Context, city, docName string, force bool) (*providers.OCRResponse, error) {
	checkpoint := p.home.OCRCheckpointPath(city, docName)

	if !force {
		if data, err := os.ReadFile(checkpoint); err == nil {
			var resp providers.OCRResponse
			if err := json.Unmarshal(data, &resp); err == nil {
				p.logger.Info("reusing OCR checkpoint", "city", city, "doc", docName, "path", checkpoint)
				return &resp, nil
			}
			p.logger.Warn("discarding unreadable OCR checkpoint", "path", checkpoint, "error", err)
		}
	}

	if p.ocr == nil {
		return nil, fmt.Errorf("no OCR provider configured")
	}

	pdfPath := p.home.ExternalPDFPath(city, docName)
	p.logger.Info("running OCR", "city", city, "doc", docName, "provider", p.ocr.Name())

	var resp *providers.OCRResponse
	err := retry.Do(
		func() error {
			var err error
			resp, err = p.ocr.ProcessDocument(ctx, pdfPath)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(p.ocr.MaxRetries())),
		retry.Delay(p.ocr.RetryDelayBase()),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("OCR attempt failed", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("OCR failed for %s/%s: %w", city, docName, err)
	}

	if err := saveJSON(checkpoint, resp); err != nil {
		return nil, err
	}
	p.logger.Info("OCR checkpoint saved", "path", checkpoint, "pages", len(resp.Pages))

	return resp, nil
}
