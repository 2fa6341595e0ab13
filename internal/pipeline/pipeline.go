// Package pipeline orchestrates the PLU processing stages over the mawa
// data tree: extract (OCR + standardize + dedupe), zone finding, splitting,
// curation and per-zone analysis. Each stage reads its input from the tree
// and writes a checkpoint the next stage picks up, so a failed run resumes
// where it stopped and every hand-off is reviewable on disk.
package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mawa-labs/mawa/internal/config"
	"github.com/mawa-labs/mawa/internal/document"
	"github.com/mawa-labs/mawa/internal/home"
	"github.com/mawa-labs/mawa/internal/providers"
)

// Pipeline wires the stage implementations to the data tree and the external
// collaborators.
type Pipeline struct {
	home   *home.Dir
	cfg    *config.Config
	ocr    providers.OCRProvider
	client providers.AnalysisClient
	model  string
	logger *slog.Logger
}

// Options holds Pipeline construction parameters. OCR and Client may be nil
// for stages that do not call out (split, curate).
type Options struct {
	Home   *home.Dir
	Config *config.Config
	OCR    providers.OCRProvider
	Client providers.AnalysisClient
	Model  string
	Logger *slog.Logger
}

// New creates a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Home == nil {
		return nil, fmt.Errorf("home directory is required")
	}
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{
		home:   opts.Home,
		cfg:    opts.Config,
		ocr:    opts.OCR,
		client: opts.Client,
		model:  opts.Model,
		logger: opts.Logger,
	}, nil
}

// loadDocument reads a standardized or split document from the data tree.
func loadDocument(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", path, err)
	}
	return &doc, nil
}

// saveJSON writes v as indented JSON, creating parent directories as needed.
func saveJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
