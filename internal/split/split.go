// Package split applies an accepted zone mapping to cut one standardized
// document into per-zone documents. Pages are copied, never moved: the
// source document stays immutable and split outputs are disposable,
// regenerable artifacts.
package split

import (
	"fmt"

	"github.com/mawa-labs/mawa/internal/document"
	"github.com/mawa-labs/mawa/internal/zonefind"
)

// UnknownZoneError reports a mapping that references a zone absent from the
// city's configured zone list. Treated as a configuration error: the mapping
// artifact is stale or the city config is wrong.
type UnknownZoneError struct {
	City string
	Zone string
}

func (e *UnknownZoneError) Error() string {
	return fmt.Sprintf("mapping references zone %q not configured for city %s", e.Zone, e.City)
}

// Apply produces one zone document per zone with a non-empty range.
// Pages are renumbered 1..k in range order, each range's pages contiguous
// and in original order; OriginPageNumbers records, per local page, the
// source page it was copied from. Output order follows sorted zone IDs, so
// two runs over the same inputs yield identical results.
//
// knownZones guards against stale mappings; pass nil to skip the check.
func Apply(doc *document.Document, mapping *zonefind.ZoneMapping, knownZones []string) ([]*document.Document, error) {
	if err := mapping.Validate(doc.LastPage()); err != nil {
		return nil, err
	}

	var known map[string]bool
	if knownZones != nil {
		known = make(map[string]bool, len(knownZones))
		for _, z := range knownZones {
			known[z] = true
		}
		// DG pages are not a city zone but are always a legal split target.
		known[string(document.DocTypeDG)] = true
	}

	var out []*document.Document
	for _, zone := range mapping.ZoneIDs() {
		if known != nil && !known[zone] {
			return nil, &UnknownZoneError{City: doc.City, Zone: zone}
		}
		pages := mapping.Pages(zone)
		if len(pages) == 0 {
			continue
		}
		out = append(out, extract(doc, zone, pages))
	}
	return out, nil
}

// extract copies the selected pages into a new per-zone document.
func extract(doc *document.Document, zone string, pages []int) *document.Document {
	zoneDoc := &document.Document{
		City:              doc.City,
		Name:              doc.Name,
		DocType:           doc.DocType,
		VersionDate:       doc.VersionDate,
		Zoning:            doc.Name,
		Zone:              zone,
		Pages:             make([]document.Page, 0, len(pages)),
		OriginPageNumbers: make([]int, 0, len(pages)),
		ModelMetadata:     doc.ModelMetadata,
	}
	if zone == string(document.DocTypeDG) {
		zoneDoc.DocType = document.DocTypeDG
	}

	needed := make(map[string]bool)
	for i, src := range pages {
		page := document.ClonePage(doc.Pages[src-1])
		page.PageNumber = i + 1
		for _, ref := range page.Assets {
			needed[ref.ID] = true
		}
		zoneDoc.Pages = append(zoneDoc.Pages, page)
		zoneDoc.OriginPageNumbers = append(zoneDoc.OriginPageNumbers, src)
	}

	// Carry only the assets the copied pages reference.
	for _, a := range doc.Assets {
		if needed[a.ID] {
			asset := a
			asset.Data = append([]byte(nil), a.Data...)
			zoneDoc.Assets = append(zoneDoc.Assets, asset)
		}
	}
	return zoneDoc
}
