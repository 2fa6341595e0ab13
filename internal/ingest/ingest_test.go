package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mawa-labs/mawa/internal/home"
)

func TestDeriveDocName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path/to/reglement-bordeaux.pdf", "reglement-bordeaux"},
		{"/path/to/reglement-1.pdf", "reglement"},
		{"/path/to/reglement-10.pdf", "reglement"},
		{"simple.pdf", "simple"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := deriveDocName(tt.input)
			if result != tt.expected {
				t.Errorf("got %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestStage_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	homeDir, _ := home.New(tmpDir)

	t.Run("missing path", func(t *testing.T) {
		_, err := Stage(homeDir, Request{City: "bordeaux"})
		if err == nil {
			t.Error("expected error for missing PDF path")
		}
	})

	t.Run("missing city", func(t *testing.T) {
		_, err := Stage(homeDir, Request{PDFPath: "/tmp/nope.pdf"})
		if err == nil {
			t.Error("expected error for missing city")
		}
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := Stage(homeDir, Request{PDFPath: filepath.Join(tmpDir, "missing.pdf"), City: "bordeaux"})
		if err == nil {
			t.Error("expected error for nonexistent PDF")
		}
	})

	t.Run("invalid PDF", func(t *testing.T) {
		bad := filepath.Join(tmpDir, "bad.pdf")
		if err := os.WriteFile(bad, []byte("not a pdf"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Stage(homeDir, Request{PDFPath: bad, City: "bordeaux"})
		if err == nil {
			t.Error("expected error for invalid PDF")
		}
	})
}

func TestStage(t *testing.T) {
	// Use the test fixture
	testPDF := filepath.Join("..", "..", "testdata", "reglement.pdf")
	if _, err := os.Stat(testPDF); os.IsNotExist(err) {
		t.Skip("test fixture not found")
	}

	tmpDir := t.TempDir()
	homeDir, _ := home.New(tmpDir)

	res, err := Stage(homeDir, Request{PDFPath: testPDF, City: "bordeaux"})
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}

	if res.DocName != "reglement" {
		t.Errorf("expected doc name reglement, got %s", res.DocName)
	}
	if res.PageCount == 0 {
		t.Error("expected non-zero page count")
	}
	if res.StagedPath != homeDir.ExternalPDFPath("bordeaux", "reglement") {
		t.Errorf("unexpected staged path %s", res.StagedPath)
	}
	if _, err := os.Stat(res.StagedPath); err != nil {
		t.Errorf("staged file missing: %v", err)
	}
}
