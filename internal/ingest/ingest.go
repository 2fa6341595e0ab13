// Package ingest stages source PLU documents into the mawa data tree.
package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/mawa-labs/mawa/internal/home"
)

// Request contains the parameters for staging a source PDF.
type Request struct {
	PDFPath string       // Path to the downloaded PLU PDF
	City    string       // City the document belongs to
	DocName string       // Document name (optional, derived from filename if empty)
	Logger  *slog.Logger // Optional logger for progress updates
}

// Result contains the result of a successful staging operation.
type Result struct {
	City       string
	DocName    string
	PageCount  int
	StagedPath string
}

// Stage validates a source PDF and copies it into the city's external
// directory, where the OCR stage picks it up.
func Stage(homeDir *home.Dir, req Request) (*Result, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}

	if req.PDFPath == "" {
		return nil, fmt.Errorf("no PDF path provided")
	}
	if req.City == "" {
		return nil, fmt.Errorf("no city provided")
	}
	if _, err := os.Stat(req.PDFPath); err != nil {
		return nil, fmt.Errorf("PDF not found: %s", req.PDFPath)
	}

	docName := req.DocName
	if docName == "" {
		docName = deriveDocName(req.PDFPath)
	}

	log.Info("staging document", "city", req.City, "doc", docName, "source", req.PDFPath)

	if err := api.ValidateFile(req.PDFPath, nil); err != nil {
		return nil, fmt.Errorf("invalid PDF %s: %w", req.PDFPath, err)
	}

	f, err := os.Open(req.PDFPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("PDF has no pages: %s", req.PDFPath)
	}

	if err := homeDir.EnsureCityDirs(req.City); err != nil {
		return nil, fmt.Errorf("failed to create city directories: %w", err)
	}

	dst := homeDir.ExternalPDFPath(req.City, docName)
	if err := copyFile(req.PDFPath, dst); err != nil {
		return nil, fmt.Errorf("failed to stage PDF: %w", err)
	}

	log.Info("staging complete", "city", req.City, "doc", docName, "pages", pageCount)

	return &Result{
		City:       req.City,
		DocName:    docName,
		PageCount:  pageCount,
		StagedPath: dst,
	}, nil
}

// copyFile copies src to dst via a temp file in the destination directory,
// renaming into place so a partial copy never shadows a staged document.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := filepath.Join(filepath.Dir(dst), "."+uuid.New().String()+".tmp")
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, dst)
}

// deriveDocName extracts a document name from a PDF filename.
// e.g., "reglement-bordeaux.pdf" -> "reglement-bordeaux"
// e.g., "reglement-2.pdf" -> "reglement"
func deriveDocName(pdfPath string) string {
	base := filepath.Base(pdfPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	// Remove numeric suffix like "-1", "-2", etc.
	re := regexp.MustCompile(`-\d+$`)
	name = re.ReplaceAllString(name, "")

	return name
}
