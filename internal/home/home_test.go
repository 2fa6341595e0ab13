package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-mawa")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-mawa" {
			t.Errorf("expected path /tmp/test-mawa, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-mawa")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"ConfigPath", dir.ConfigPath(), "/tmp/test-mawa/config.yaml"},
		{"ExternalPDFPath", dir.ExternalPDFPath("bordeaux", "reglement"), "/tmp/test-mawa/external/bordeaux/reglement.pdf"},
		{"OCRCheckpointPath", dir.OCRCheckpointPath("bordeaux", "reglement"), "/tmp/test-mawa/ocr/bordeaux/reglement.ocr.json"},
		{"StandardizedPath", dir.StandardizedPath("bordeaux", "reglement"), "/tmp/test-mawa/standardized/bordeaux/reglement.json"},
		{"ZoneMappingPath", dir.ZoneMappingPath("bordeaux", "reglement"), "/tmp/test-mawa/standardized/bordeaux/reglement.page_split.json"},
		{"ZoneDocumentPath", dir.ZoneDocumentPath("bordeaux", "reglement", "UA"), "/tmp/test-mawa/interim/bordeaux/reglement/UA.json"},
		{"AnalysisPath", dir.AnalysisPath("bordeaux", "reglement", "UA"), "/tmp/test-mawa/analysis/bordeaux/reglement/UA.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.got)
			}
		})
	}
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	mawaDir := filepath.Join(tmpDir, "mawa-test")

	dir, err := New(mawaDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Directory shouldn't exist yet
	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	// Create it
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	// Now it should exist
	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}

	// Stage directories should also exist
	for _, stage := range []string{ExternalDirName, OCRDirName, StandardizedDirName, InterimDirName, AnalysisDirName, RenderDirName} {
		if _, err := os.Stat(filepath.Join(mawaDir, stage)); os.IsNotExist(err) {
			t.Errorf("%s directory should exist after EnsureExists", stage)
		}
	}
}

func TestDir_EnsureCityDirs(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	if err := dir.EnsureCityDirs("nantes"); err != nil {
		t.Fatalf("EnsureCityDirs failed: %v", err)
	}

	for _, path := range []string{dir.ExternalDir("nantes"), dir.OCRDir("nantes"), dir.StandardizedDir("nantes")} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected directory %s to exist", path)
		}
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	// Config doesn't exist
	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	// Create a config file
	configPath := dir.ConfigPath()
	if err := os.WriteFile(configPath, []byte("test: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Now it should exist
	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}
