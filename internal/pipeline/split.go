package pipeline

import (
	"github.com/mawa-labs/mawa/internal/document"
	"github.com/mawa-labs/mawa/internal/split"
	"github.com/mawa-labs/mawa/internal/zonefind"
)

// Split divides a standardized document into per-zone documents according to
// the persisted zone mapping artifact, writing one file per zone under the
// interim tree. The artifact is revalidated against the document on load, so
// a stale or hand-broken mapping fails here instead of producing bad splits.
func (p *Pipeline) Split(city, docName string) ([]*document.Document, error) {
	doc, err := loadDocument(p.home.StandardizedPath(city, docName))
	if err != nil {
		return nil, err
	}

	artifact, err := zonefind.LoadArtifact(p.home.ZoneMappingPath(city, docName), doc.LastPage())
	if err != nil {
		return nil, err
	}

	zones, err := split.Apply(doc, artifact.Mapping(), p.cfg.CityZones(city))
	if err != nil {
		return nil, err
	}

	for _, zone := range zones {
		path := p.home.ZoneDocumentPath(city, zone.Zoning, zone.Zone)
		if err := saveJSON(path, zone); err != nil {
			return nil, err
		}
		p.logger.Info("zone document saved",
			"city", city,
			"zone", zone.Zone,
			"pages", len(zone.Pages),
			"path", path)
	}

	return zones, nil
}
