package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the mawa home directory.
	DefaultDirName = ".mawa"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Stage names mirror the data flow: external holds fetched source PDFs,
// ocr holds raw OCR checkpoints, standardized holds normalized documents,
// interim holds per-zone splits, analysis holds structured rule output and
// render holds final artifacts.
const (
	ExternalDirName     = "external"
	OCRDirName          = "ocr"
	StandardizedDirName = "standardized"
	InterimDirName      = "interim"
	AnalysisDirName     = "analysis"
	RenderDirName       = "render"
)

// Dir represents the mawa home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.mawa).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and stage subdirectories if they
// don't exist.
func (d *Dir) EnsureExists() error {
	for _, stage := range []string{
		ExternalDirName,
		OCRDirName,
		StandardizedDirName,
		InterimDirName,
		AnalysisDirName,
		RenderDirName,
	} {
		if err := os.MkdirAll(filepath.Join(d.path, stage), 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", stage, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// ExternalDir returns the directory holding fetched source PDFs for a city.
func (d *Dir) ExternalDir(city string) string {
	return filepath.Join(d.path, ExternalDirName, city)
}

// ExternalPDFPath returns the staged path for a city's source PDF.
func (d *Dir) ExternalPDFPath(city, docName string) string {
	return filepath.Join(d.ExternalDir(city), docName+".pdf")
}

// OCRDir returns the directory for raw OCR checkpoints of a city.
func (d *Dir) OCRDir(city string) string {
	return filepath.Join(d.path, OCRDirName, city)
}

// OCRCheckpointPath returns the path of the raw OCR response for a document.
func (d *Dir) OCRCheckpointPath(city, docName string) string {
	return filepath.Join(d.OCRDir(city), docName+".ocr.json")
}

// StandardizedDir returns the directory for standardized documents of a city.
func (d *Dir) StandardizedDir(city string) string {
	return filepath.Join(d.path, StandardizedDirName, city)
}

// StandardizedPath returns the path of a standardized, deduplicated document.
func (d *Dir) StandardizedPath(city, docName string) string {
	return filepath.Join(d.StandardizedDir(city), docName+".json")
}

// ZoneMappingPath returns the path of the page-split artifact for a document.
// It sits next to the standardized document so reviewers find both together.
func (d *Dir) ZoneMappingPath(city, docName string) string {
	return filepath.Join(d.StandardizedDir(city), docName+".page_split.json")
}

// InterimDir returns the per-zone directory for a city's zoning plan.
func (d *Dir) InterimDir(city, zoning string) string {
	return filepath.Join(d.path, InterimDirName, city, zoning)
}

// ZoneDocumentPath returns the path of a single zone's split document.
func (d *Dir) ZoneDocumentPath(city, zoning, zone string) string {
	return filepath.Join(d.InterimDir(city, zoning), zone+".json")
}

// AnalysisDir returns the directory for structured rule analyses of a city.
func (d *Dir) AnalysisDir(city, zoning string) string {
	return filepath.Join(d.path, AnalysisDirName, city, zoning)
}

// AnalysisPath returns the path of a zone's structured analysis.
func (d *Dir) AnalysisPath(city, zoning, zone string) string {
	return filepath.Join(d.AnalysisDir(city, zoning), zone+".json")
}

// EnsureCityDirs creates the per-city stage directories.
func (d *Dir) EnsureCityDirs(city string) error {
	for _, dir := range []string{
		d.ExternalDir(city),
		d.OCRDir(city),
		d.StandardizedDir(city),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create city directory: %w", err)
		}
	}
	return nil
}
