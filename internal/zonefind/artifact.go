package zonefind

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact is the persisted form of an accepted ZoneMapping. It is written
// as reviewable JSON so inference errors can be corrected by hand before the
// splitter consumes it.
type Artifact struct {
	City        string                 `json:"city"`
	DocName     string                 `json:"doc_name"`
	GeneratedAt string                 `json:"generated_at"`
	Model       string                 `json:"model,omitempty"`
	Zones       map[string][]PageRange `json:"zones"`
}

// NewArtifact wraps an accepted mapping for persistence.
func NewArtifact(m *ZoneMapping, model string) *Artifact {
	return &Artifact{
		City:        m.City,
		DocName:     m.DocName,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Model:       model,
		Zones:       m.Zones,
	}
}

// Mapping returns the ZoneMapping carried by the artifact.
func (a *Artifact) Mapping() *ZoneMapping {
	return &ZoneMapping{City: a.City, DocName: a.DocName, Zones: a.Zones}
}

// SaveArtifact writes the artifact as indented JSON, creating parent
// directories as needed.
func SaveArtifact(a *Artifact, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mapping artifact: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write mapping artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads a persisted mapping artifact. The file may have been
// hand-edited, so the zone payload is revalidated against lastPage before
// use; pass lastPage <= 0 to skip range validation when the source document
// is not at hand.
func LoadArtifact(path string, lastPage int) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping artifact: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse mapping artifact %s: %w", path, err)
	}

	if lastPage > 0 {
		if err := a.Mapping().Validate(lastPage); err != nil {
			return nil, err
		}
	}
	return &a, nil
}
