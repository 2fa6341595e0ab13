package standardize

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mawa-labs/mawa/internal/document"
	"github.com/mawa-labs/mawa/internal/providers"
)

func testRequest() Request {
	return Request{
		City:        "bordeaux",
		DocName:     "reglement",
		DocType:     document.DocTypePLUAndDG,
		VersionDate: "2024-03-01",
	}
}

func testResponse() *providers.OCRResponse {
	return &providers.OCRResponse{
		Model: "mistral-ocr-latest",
		Pages: []providers.OCRPage{
			{
				Index:      0,
				Markdown:   "# Zone UA\n\nArticle UA-1 : occupations interdites.\n\n| usage | statut |\n| --- | --- |",
				Dimensions: providers.OCRDimensions{DPI: 300, Width: 1700, Height: 2200},
				Images: []providers.OCRImage{
					{ID: "img-0.png", ImageBase64: base64.StdEncoding.EncodeToString([]byte{1, 2, 3})},
				},
			},
			{Index: 1, Markdown: "Article UA-2 : conditions particulières."},
		},
		UsageInfo: &providers.UsageInfo{PagesProcessed: 2, DocSizeBytes: 4096},
	}
}

func TestStandardize(t *testing.T) {
	doc, err := Standardize(testResponse(), testRequest())
	if err != nil {
		t.Fatalf("Standardize() error = %v", err)
	}

	t.Run("page numbers are 1-based and contiguous", func(t *testing.T) {
		if err := doc.ValidatePageOrder(); err != nil {
			t.Error(err)
		}
		if doc.LastPage() != 2 {
			t.Errorf("expected 2 pages, got %d", doc.LastPage())
		}
	})

	t.Run("blocks split on blank lines with kinds", func(t *testing.T) {
		blocks := doc.Pages[0].Blocks
		if len(blocks) != 3 {
			t.Fatalf("expected 3 blocks, got %d", len(blocks))
		}
		if blocks[0].Kind != document.KindHeading {
			t.Errorf("block 0 kind = %s, want heading", blocks[0].Kind)
		}
		if blocks[1].Kind != document.KindParagraph {
			t.Errorf("block 1 kind = %s, want paragraph", blocks[1].Kind)
		}
		if blocks[2].Kind != document.KindTable {
			t.Errorf("block 2 kind = %s, want table", blocks[2].Kind)
		}
	})

	t.Run("assets decoded into asset table", func(t *testing.T) {
		if len(doc.Assets) != 1 {
			t.Fatalf("expected 1 asset, got %d", len(doc.Assets))
		}
		a := doc.Assets[0]
		if a.OriginPageNumber != 1 {
			t.Errorf("origin page = %d, want 1", a.OriginPageNumber)
		}
		if a.Format != "png" {
			t.Errorf("format = %q, want png", a.Format)
		}
		if !bytes.Equal(a.Data, []byte{1, 2, 3}) {
			t.Error("asset payload not decoded")
		}
		if len(doc.Pages[0].Assets) != 1 || doc.Pages[0].Assets[0].ID != "img-0.png" {
			t.Error("page asset reference missing")
		}
	})

	t.Run("document identity carried through", func(t *testing.T) {
		if doc.City != "bordeaux" || doc.Name != "reglement" || doc.DocType != document.DocTypePLUAndDG {
			t.Errorf("identity fields wrong: %+v", doc)
		}
	})
}

func TestStandardize_Idempotent(t *testing.T) {
	a, err := Standardize(testResponse(), testRequest())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Standardize(testResponse(), testRequest())
	if err != nil {
		t.Fatal(err)
	}

	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if !bytes.Equal(aj, bj) {
		t.Error("two runs on the same payload produced different documents")
	}
}

func TestStandardize_SchemaMismatch(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		_, err := Standardize(nil, testRequest())
		var sm *SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("expected SchemaMismatchError, got %v", err)
		}
	})

	t.Run("empty page list", func(t *testing.T) {
		_, err := Standardize(&providers.OCRResponse{}, testRequest())
		var sm *SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("expected SchemaMismatchError, got %v", err)
		}
		if sm.Field != "pages" {
			t.Errorf("field = %q, want pages", sm.Field)
		}
	})

	t.Run("page without text regions", func(t *testing.T) {
		resp := testResponse()
		resp.Pages[1].Markdown = "   \n  "
		_, err := Standardize(resp, testRequest())
		var sm *SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("expected SchemaMismatchError, got %v", err)
		}
		if sm.Page != 2 {
			t.Errorf("page = %d, want 2", sm.Page)
		}
	})

	t.Run("invalid asset base64", func(t *testing.T) {
		resp := testResponse()
		resp.Pages[0].Images[0].ImageBase64 = "!!not base64!!"
		_, err := Standardize(resp, testRequest())
		var sm *SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("expected SchemaMismatchError, got %v", err)
		}
		if sm.Field != "images" {
			t.Errorf("field = %q, want images", sm.Field)
		}
	})
}
