package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mawa-labs/mawa/internal/curate"
)

// Curate strips non-regulatory content from every zone document of a zoning
// plan, rewriting each file in place. Rules come from the city's configured
// rule file when present, otherwise from the embedded defaults. Returns the
// number of documents curated.
func (p *Pipeline) Curate(city, zoning string, opts curate.Options) (int, error) {
	rules, err := p.cityRules(city)
	if err != nil {
		return 0, err
	}

	dir := p.home.InterimDir(city, zoning)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read zone documents in %s: %w", dir, err)
	}

	curated := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := loadDocument(path)
		if err != nil {
			return curated, err
		}

		before := len(doc.Pages)
		doc = curate.Apply(doc, rules, opts)
		if err := saveJSON(path, doc); err != nil {
			return curated, err
		}

		p.logger.Info("zone document curated",
			"city", city,
			"zone", doc.Zone,
			"pages_before", before,
			"pages_after", len(doc.Pages))
		curated++
	}

	return curated, nil
}

// cityRules loads the city-specific curation rules, falling back to the
// embedded defaults when the city has no rule file configured.
func (p *Pipeline) cityRules(city string) (*curate.RuleSet, error) {
	if cfg, ok := p.cfg.GetCity(city); ok && cfg.CuratorRules != "" {
		return curate.LoadRules(cfg.CuratorRules)
	}
	return curate.DefaultRules()
}
