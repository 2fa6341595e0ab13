package zonefind

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mawa-labs/mawa/internal/document"
	"github.com/mawa-labs/mawa/internal/providers"
	"github.com/mawa-labs/mawa/internal/schema"
)

const systemPrompt = `You segment French local land-use plans (PLU) into zones.
You are given the full text of a règlement document, one page at a time, and
the list of zone identifiers known for this city. Assign to each zone the
inclusive page ranges where its regulatory text appears. Use "DG" for pages
carrying dispositions générales. Leave front matter, tables of contents and
annex pages unassigned. A page belongs to at most one zone. Answer with JSON
only, matching the provided schema: zone identifier to list of
{"start_page", "end_page"} objects.`

// Finder infers a ZoneMapping for a multi-zone document. The LLM call is an
// opaque collaborator; every candidate response is validated against the
// zone-mapping schema and the acceptance policy before it is returned.
type Finder struct {
	client  providers.AnalysisClient
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// Config holds Finder construction options.
type Config struct {
	Client  providers.AnalysisClient
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// New creates a Finder.
func New(cfg Config) *Finder {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Finder{
		client:  cfg.Client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// FindZones produces an accepted ZoneMapping for a standardized document, or
// fails with an *InferenceError when the response is malformed or
// contradictory. Known zones absent from the response are recorded as empty
// rather than failing: a document legitimately need not mention every zone.
func (f *Finder) FindZones(ctx context.Context, doc *document.Document, knownZones []string) (*ZoneMapping, error) {
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("document %s/%s has no pages", doc.City, doc.Name)
	}

	responseSchema, err := schema.Raw(schema.ZoneMapping)
	if err != nil {
		return nil, err
	}

	req := &providers.ChatRequest{
		Model: f.model,
		Messages: []providers.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(doc, knownZones)},
		},
		ResponseFormat: &providers.ResponseFormat{
			Type:       "json_schema",
			JSONSchema: responseSchema,
		},
		Timeout: f.timeout,
	}

	f.logger.Info("requesting zone inference",
		"city", doc.City, "doc", doc.Name,
		"pages", len(doc.Pages), "known_zones", len(knownZones))

	result, err := f.client.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("zone inference call failed: %w", err)
	}

	mapping, err := f.accept(doc, knownZones, result.ParsedJSON)
	if err != nil {
		return nil, err
	}

	f.logger.Info("zone mapping accepted",
		"city", doc.City, "doc", doc.Name, "zones", len(mapping.Zones))
	return mapping, nil
}

// accept runs the full acceptance contract on a candidate payload: schema
// validation, decoding, empty-zone backfill, then the range policy.
func (f *Finder) accept(doc *document.Document, knownZones []string, payload json.RawMessage) (*ZoneMapping, error) {
	if len(payload) == 0 {
		return nil, &InferenceError{
			City: doc.City, DocName: doc.Name,
			Reason: "inference returned no structured payload",
		}
	}

	if err := schema.Validate(schema.ZoneMapping, payload); err != nil {
		return nil, &InferenceError{
			City: doc.City, DocName: doc.Name,
			Reason: fmt.Sprintf("malformed response: %v", err),
		}
	}

	var zones map[string][]PageRange
	if err := json.Unmarshal(payload, &zones); err != nil {
		return nil, &InferenceError{
			City: doc.City, DocName: doc.Name,
			Reason: fmt.Sprintf("undecodable response: %v", err),
		}
	}

	// Record known zones the model stayed silent on as empty.
	for _, z := range knownZones {
		if _, ok := zones[z]; !ok {
			zones[z] = nil
		}
	}

	mapping := &ZoneMapping{City: doc.City, DocName: doc.Name, Zones: zones}
	if err := mapping.Validate(doc.LastPage()); err != nil {
		return nil, err
	}
	return mapping, nil
}

// buildPrompt lays out the document page by page plus the known zone list.
func buildPrompt(doc *document.Document, knownZones []string) string {
	var b strings.Builder

	zones := append([]string(nil), knownZones...)
	sort.Strings(zones)
	fmt.Fprintf(&b, "City: %s\nDocument: %s\nKnown zones: %s\n\n",
		doc.City, doc.Name, strings.Join(zones, ", "))

	for _, page := range doc.Pages {
		fmt.Fprintf(&b, "Page %d:\n", page.PageNumber)
		for _, block := range page.Blocks {
			b.WriteString(block.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
