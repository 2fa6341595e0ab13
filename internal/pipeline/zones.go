package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/mawa-labs/mawa/internal/zonefind"
)

// FindZones infers the zone-to-page mapping for a standardized document and
// persists it as the reviewable page-split artifact. An existing artifact is
// left alone unless force is set, so hand corrections survive re-runs.
func (p *Pipeline) FindZones(ctx context.Context, city, docName string, force bool) (*zonefind.Artifact, error) {
	doc, err := loadDocument(p.home.StandardizedPath(city, docName))
	if err != nil {
		return nil, err
	}

	artifactPath := p.home.ZoneMappingPath(city, docName)
	if !force {
		if _, err := os.Stat(artifactPath); err == nil {
			p.logger.Info("reusing zone mapping artifact", "city", city, "doc", docName, "path", artifactPath)
			return zonefind.LoadArtifact(artifactPath, doc.LastPage())
		}
	}

	if p.client == nil {
		return nil, fmt.Errorf("no analysis client configured")
	}

	finder := zonefind.New(zonefind.Config{
		Client: p.client,
		Model:  p.model,
		Logger: p.logger,
	})

	mapping, err := finder.FindZones(ctx, doc, p.cfg.CityZones(city))
	if err != nil {
		return nil, err
	}

	artifact := zonefind.NewArtifact(mapping, p.model)
	if err := zonefind.SaveArtifact(artifact, artifactPath); err != nil {
		return nil, err
	}

	p.logger.Info("zone mapping saved",
		"city", city,
		"doc", docName,
		"zones", len(mapping.Zones),
		"path", artifactPath)

	return artifact, nil
}
