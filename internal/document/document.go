// Package document provides the canonical document model shared across the
// pipeline stages. This package has no dependencies on other mawa packages
// to avoid import cycles.
package document

import "fmt"

// DocType identifies the regulatory document type.
type DocType string

const (
	// DocTypeDG is a dispositions générales document (general provisions).
	DocTypeDG DocType = "DG"
	// DocTypePLU is a per-zone or multi-zone règlement document.
	DocTypePLU DocType = "PLU"
	// DocTypePLUAndDG is a single document carrying both.
	DocTypePLUAndDG DocType = "PLU_AND_DG"
)

// ParseDocType converts a string to a DocType.
func ParseDocType(s string) (DocType, error) {
	switch DocType(s) {
	case DocTypeDG, DocTypePLU, DocTypePLUAndDG:
		return DocType(s), nil
	default:
		return "", fmt.Errorf("unknown document type %q", s)
	}
}

// BlockKind tags the structural role of a text block. Not an enum: OCR
// providers emit whatever granularity they detect.
type BlockKind string

const (
	KindHeading   BlockKind = "heading"
	KindParagraph BlockKind = "paragraph"
	KindTable     BlockKind = "table"
	KindCaption   BlockKind = "caption"
	KindUnknown   BlockKind = "unknown"
)

// Block is a unit of extracted text in reading order.
type Block struct {
	Text string    `json:"text"`
	Kind BlockKind `json:"kind"`
	// ContentHash is the stable hash of the normalized text. Derived; set by
	// the deduplicator. Two blocks with identical normalized text hash
	// identically regardless of source page.
	ContentHash string `json:"content_hash,omitempty"`
}

// Dimensions records the physical page dimensions reported by OCR.
type Dimensions struct {
	DPI    int `json:"dpi"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AssetRef is a page-level reference to an asset in the document's asset
// table. After deduplication multiple refs may point at the same canonical
// asset.
type AssetRef struct {
	ID   string `json:"id"`
	Hash string `json:"hash,omitempty"`
}

// Asset is an embedded image extracted from a page.
type Asset struct {
	ID string `json:"id"`
	// ContentHash is the hash of the decoded pixel payload, not the encoded
	// bytes, so re-encoding by the provider does not defeat identity.
	ContentHash      string `json:"hash,omitempty"`
	Data             []byte `json:"bytes_ref,omitempty"`
	Format           string `json:"format,omitempty"`
	OriginPageNumber int    `json:"origin_page_number"`
}

// Page is one physical page. Blocks preserve the reading order emitted by
// OCR; assets are ordered references into the document asset table.
type Page struct {
	PageNumber int        `json:"page_number"`
	Blocks     []Block    `json:"blocks"`
	Assets     []AssetRef `json:"assets,omitempty"`
	Dimensions Dimensions `json:"dimensions"`
}

// Document is an ordered sequence of pages belonging to one source file.
// Page numbers are 1-based and contiguous, matching original physical order.
// Documents are treated as immutable once built; every stage returns new
// values rather than mutating its input.
type Document struct {
	City        string  `json:"city"`
	Name        string  `json:"name_of_document"`
	DocType     DocType `json:"doc_type"`
	VersionDate string  `json:"version_date"`
	Pages       []Page  `json:"pages"`
	Assets      []Asset `json:"asset_table,omitempty"`

	// Zoning/Zone are set on documents produced by the splitter.
	Zoning string `json:"zoning,omitempty"`
	Zone   string `json:"zone,omitempty"`
	// OriginPageNumbers is parallel to Pages on split documents and records
	// the source document page each local page was copied from.
	OriginPageNumbers []int `json:"origin_page_numbers,omitempty"`

	ModelMetadata map[string]any `json:"model_metadata,omitempty"`
}

// LastPage returns the highest page number, 0 for an empty document.
func (d *Document) LastPage() int {
	return len(d.Pages)
}

// Asset looks up an asset in the document asset table by ID.
func (d *Document) Asset(id string) (*Asset, bool) {
	for i := range d.Assets {
		if d.Assets[i].ID == id {
			return &d.Assets[i], true
		}
	}
	return nil, false
}

// ValidatePageOrder checks the 1..n contiguity invariant.
func (d *Document) ValidatePageOrder() error {
	for i, p := range d.Pages {
		if p.PageNumber != i+1 {
			return fmt.Errorf("page at position %d has page_number %d, want %d", i, p.PageNumber, i+1)
		}
	}
	return nil
}

// Clone returns a deep copy of the document. Stages that derive new
// documents copy rather than alias so the source stays immutable.
func (d *Document) Clone() *Document {
	out := *d
	out.Pages = clonePages(d.Pages)
	out.Assets = cloneAssets(d.Assets)
	if d.OriginPageNumbers != nil {
		out.OriginPageNumbers = append([]int(nil), d.OriginPageNumbers...)
	}
	if d.ModelMetadata != nil {
		out.ModelMetadata = make(map[string]any, len(d.ModelMetadata))
		for k, v := range d.ModelMetadata {
			out.ModelMetadata[k] = v
		}
	}
	return &out
}

// ClonePage returns a deep copy of a single page.
func ClonePage(p Page) Page {
	out := p
	out.Blocks = append([]Block(nil), p.Blocks...)
	out.Assets = append([]AssetRef(nil), p.Assets...)
	return out
}

func clonePages(pages []Page) []Page {
	if pages == nil {
		return nil
	}
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = ClonePage(p)
	}
	return out
}

func cloneAssets(assets []Asset) []Asset {
	if assets == nil {
		return nil
	}
	out := make([]Asset, len(assets))
	for i, a := range assets {
		out[i] = a
		out[i].Data = append([]byte(nil), a.Data...)
	}
	return out
}
