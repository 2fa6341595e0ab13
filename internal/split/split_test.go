package split

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/mawa-labs/mawa/internal/document"
	"github.com/mawa-labs/mawa/internal/zonefind"
)

func sourceDoc(pages int) *document.Document {
	doc := &document.Document{
		City:    "bordeaux",
		Name:    "reglement",
		DocType: document.DocTypePLUAndDG,
	}
	for i := 1; i <= pages; i++ {
		doc.Pages = append(doc.Pages, document.Page{
			PageNumber: i,
			Blocks:     []document.Block{{Text: fmt.Sprintf("contenu page %d", i), Kind: document.KindParagraph}},
		})
	}
	return doc
}

func bordeauxMapping() *zonefind.ZoneMapping {
	return &zonefind.ZoneMapping{
		City: "bordeaux", DocName: "reglement",
		Zones: map[string][]zonefind.PageRange{
			"UA": {{StartPage: 11, EndPage: 18}},
			"UB": {{StartPage: 19, EndPage: 25}},
			"DG": {{StartPage: 1, EndPage: 10}},
		},
	}
}

func TestApply_BordeauxScenario(t *testing.T) {
	doc := sourceDoc(40)
	docs, err := Apply(doc, bordeauxMapping(), []string{"UA", "UB"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 zone documents, got %d", len(docs))
	}

	// Sorted zone order: DG, UA, UB.
	wantPages := map[string]struct {
		count   int
		origins []int
	}{
		"DG": {10, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		"UA": {8, []int{11, 12, 13, 14, 15, 16, 17, 18}},
		"UB": {7, []int{19, 20, 21, 22, 23, 24, 25}},
	}
	for _, zd := range docs {
		want, ok := wantPages[zd.Zone]
		if !ok {
			t.Fatalf("unexpected zone %q", zd.Zone)
		}
		if len(zd.Pages) != want.count {
			t.Errorf("zone %s: %d pages, want %d", zd.Zone, len(zd.Pages), want.count)
		}
		if err := zd.ValidatePageOrder(); err != nil {
			t.Errorf("zone %s: %v", zd.Zone, err)
		}
		for i, origin := range want.origins {
			if zd.OriginPageNumbers[i] != origin {
				t.Errorf("zone %s origin[%d] = %d, want %d", zd.Zone, i, zd.OriginPageNumbers[i], origin)
			}
		}
	}

	t.Run("DG output is typed DG", func(t *testing.T) {
		for _, zd := range docs {
			if zd.Zone == "DG" && zd.DocType != document.DocTypeDG {
				t.Errorf("DG doc type = %s", zd.DocType)
			}
		}
	})

	t.Run("round trip covers mapped pages exactly", func(t *testing.T) {
		seen := map[int]int{}
		for _, zd := range docs {
			for _, p := range zd.OriginPageNumbers {
				seen[p]++
			}
		}
		for p := 1; p <= 25; p++ {
			if seen[p] != 1 {
				t.Errorf("page %d copied %d times, want 1", p, seen[p])
			}
		}
		for p := 26; p <= 40; p++ {
			if seen[p] != 0 {
				t.Errorf("unassigned page %d appeared in a split output", p)
			}
		}
	})

	t.Run("source untouched", func(t *testing.T) {
		if len(doc.Pages) != 40 || doc.Pages[0].PageNumber != 1 {
			t.Error("source document mutated")
		}
	})
}

func TestApply_Deterministic(t *testing.T) {
	doc := sourceDoc(40)
	a, err := Apply(doc, bordeauxMapping(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Apply(doc, bordeauxMapping(), nil)
	if err != nil {
		t.Fatal(err)
	}

	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if !bytes.Equal(aj, bj) {
		t.Error("two runs produced different zone documents")
	}
}

func TestApply_NonContiguousRanges(t *testing.T) {
	doc := sourceDoc(30)
	mapping := &zonefind.ZoneMapping{
		City: "bordeaux", DocName: "reglement",
		Zones: map[string][]zonefind.PageRange{
			"UA": {{StartPage: 3, EndPage: 4}, {StartPage: 20, EndPage: 21}},
		},
	}

	docs, err := Apply(doc, mapping, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 zone document, got %d", len(docs))
	}

	zd := docs[0]
	wantOrigins := []int{3, 4, 20, 21}
	for i, want := range wantOrigins {
		if zd.OriginPageNumbers[i] != want {
			t.Errorf("origin[%d] = %d, want %d", i, zd.OriginPageNumbers[i], want)
		}
		if zd.Pages[i].PageNumber != i+1 {
			t.Errorf("local page number[%d] = %d, want %d", i, zd.Pages[i].PageNumber, i+1)
		}
	}
}

func TestApply_UnknownZone(t *testing.T) {
	doc := sourceDoc(10)
	mapping := &zonefind.ZoneMapping{
		City: "bordeaux", DocName: "reglement",
		Zones: map[string][]zonefind.PageRange{"UZ": {{StartPage: 1, EndPage: 2}}},
	}

	_, err := Apply(doc, mapping, []string{"UA", "UB"})
	var uz *UnknownZoneError
	if !errors.As(err, &uz) {
		t.Fatalf("expected UnknownZoneError, got %v", err)
	}
	if uz.Zone != "UZ" || uz.City != "bordeaux" {
		t.Errorf("error context = %+v", uz)
	}
}

func TestApply_AssetsFollowPages(t *testing.T) {
	doc := sourceDoc(4)
	doc.Pages[1].Assets = []document.AssetRef{{ID: "img-a"}}
	doc.Assets = []document.Asset{
		{ID: "img-a", Data: []byte("a"), OriginPageNumber: 2},
		{ID: "img-b", Data: []byte("b"), OriginPageNumber: 4},
	}

	mapping := &zonefind.ZoneMapping{
		City: "bordeaux", DocName: "reglement",
		Zones: map[string][]zonefind.PageRange{"UA": {{StartPage: 1, EndPage: 2}}},
	}
	docs, err := Apply(doc, mapping, nil)
	if err != nil {
		t.Fatal(err)
	}
	zd := docs[0]
	if len(zd.Assets) != 1 || zd.Assets[0].ID != "img-a" {
		t.Errorf("zone doc should carry only referenced assets, got %+v", zd.Assets)
	}
}

func TestApply_InvalidMappingRejected(t *testing.T) {
	doc := sourceDoc(10)
	mapping := &zonefind.ZoneMapping{
		City: "bordeaux", DocName: "reglement",
		Zones: map[string][]zonefind.PageRange{"UA": {{StartPage: 5, EndPage: 15}}},
	}
	var ie *zonefind.InferenceError
	if _, err := Apply(doc, mapping, nil); !errors.As(err, &ie) {
		t.Fatalf("expected InferenceError for out-of-bounds mapping, got %v", err)
	}
}
