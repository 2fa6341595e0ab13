package document

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestParseDocType(t *testing.T) {
	t.Run("accepts known types", func(t *testing.T) {
		for _, s := range []string{"DG", "PLU", "PLU_AND_DG"} {
			dt, err := ParseDocType(s)
			if err != nil {
				t.Fatalf("ParseDocType(%q): %v", s, err)
			}
			if string(dt) != s {
				t.Errorf("ParseDocType(%q) = %q", s, dt)
			}
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		if _, err := ParseDocType("SCOT"); err == nil {
			t.Error("expected error for unknown doc type")
		}
	})
}

func TestValidatePageOrder(t *testing.T) {
	doc := &Document{Pages: []Page{{PageNumber: 1}, {PageNumber: 2}, {PageNumber: 3}}}
	if err := doc.ValidatePageOrder(); err != nil {
		t.Fatalf("contiguous pages rejected: %v", err)
	}

	doc.Pages[1].PageNumber = 5
	if err := doc.ValidatePageOrder(); err == nil {
		t.Error("expected error for gap in page numbers")
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and collapses", "  Zone   UA \n\n règlement ", "zone ua règlement"},
		{"case folds", "ARTICLE UA-1", "article ua-1"},
		{"empty", "   \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHashText(t *testing.T) {
	t.Run("whitespace noise hashes identically", func(t *testing.T) {
		a := HashText("Zone UA  —  Dispositions")
		b := HashText("  zone ua — dispositions\n")
		if a != b {
			t.Errorf("hashes differ: %s vs %s", a, b)
		}
	})

	t.Run("distinct text hashes differently", func(t *testing.T) {
		if HashText("zone ua") == HashText("zone ub") {
			t.Error("distinct text collided")
		}
	})
}

func encodePNG(t *testing.T, img image.Image, level png.CompressionLevel) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: level}
	if err := enc.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 120, A: 255})
		}
	}
	return img
}

func TestHashImage(t *testing.T) {
	t.Run("re-encoding does not change hash", func(t *testing.T) {
		img := testImage()
		fast := encodePNG(t, img, png.BestSpeed)
		small := encodePNG(t, img, png.BestCompression)
		if bytes.Equal(fast, small) {
			t.Skip("encodings identical, nothing to prove")
		}
		if HashImage(fast) != HashImage(small) {
			t.Error("identical pixels hashed differently across encodings")
		}
	})

	t.Run("different pixels hash differently", func(t *testing.T) {
		a := encodePNG(t, testImage(), png.DefaultCompression)
		blank := image.NewRGBA(image.Rect(0, 0, 4, 4))
		b := encodePNG(t, blank, png.DefaultCompression)
		if HashImage(a) == HashImage(b) {
			t.Error("distinct images collided")
		}
	})

	t.Run("undecodable payload falls back to raw bytes", func(t *testing.T) {
		raw := []byte("not an image")
		if HashImage(raw) != HashImage(raw) {
			t.Error("raw fallback not deterministic")
		}
	})
}

func TestClone(t *testing.T) {
	doc := &Document{
		City:    "bordeaux",
		Name:    "reglement",
		DocType: DocTypePLU,
		Pages: []Page{{
			PageNumber: 1,
			Blocks:     []Block{{Text: "Zone UA", Kind: KindHeading}},
			Assets:     []AssetRef{{ID: "img-0"}},
		}},
		Assets: []Asset{{ID: "img-0", Data: []byte{1, 2, 3}, OriginPageNumber: 1}},
	}

	clone := doc.Clone()
	clone.Pages[0].Blocks[0].Text = "changed"
	clone.Assets[0].Data[0] = 9

	if doc.Pages[0].Blocks[0].Text != "Zone UA" {
		t.Error("clone aliased page blocks")
	}
	if doc.Assets[0].Data[0] != 1 {
		t.Error("clone aliased asset data")
	}
}
