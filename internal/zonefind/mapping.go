// Package zonefind produces and validates the mapping from document pages
// to named urban zones. The actual page-content-to-zone association is an
// LLM call; everything of engineering value here is the acceptance contract
// wrapped around it. A candidate mapping is either accepted whole or
// rejected with enough detail to correct it by hand; overlaps are never
// silently resolved, since a mis-split would hand downstream analysis the
// wrong regulatory text.
package zonefind

import (
	"fmt"
	"sort"
	"strings"
)

// PageRange is an inclusive range of 1-based page numbers.
type PageRange struct {
	StartPage int `json:"start_page"`
	EndPage   int `json:"end_page"`
}

// Pages expands the range into its page numbers.
func (r PageRange) Pages() []int {
	if r.StartPage > r.EndPage {
		return nil
	}
	out := make([]int, 0, r.EndPage-r.StartPage+1)
	for p := r.StartPage; p <= r.EndPage; p++ {
		out = append(out, p)
	}
	return out
}

func (r PageRange) String() string {
	if r.StartPage == r.EndPage {
		return fmt.Sprintf("page %d", r.StartPage)
	}
	return fmt.Sprintf("pages %d-%d", r.StartPage, r.EndPage)
}

// ZoneMapping maps zone identifiers to ordered, non-overlapping page ranges
// within one source document. Zones with no matched pages are recorded with
// an empty range list; pages outside every range (front matter, back matter)
// are legitimately unassigned.
type ZoneMapping struct {
	City    string                 `json:"city"`
	DocName string                 `json:"doc_name"`
	Zones   map[string][]PageRange `json:"zones"`
}

// InferenceError reports an invalid or contradictory candidate mapping.
// It carries the conflicting zone pair and page span so a human can re-run
// inference or hand-edit the persisted mapping artifact.
type InferenceError struct {
	City    string
	DocName string
	Zone    string // zone owning the offending range
	Other   string // second zone on overlap conflicts, empty otherwise
	Range   PageRange
	Reason  string
}

func (e *InferenceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid zone mapping for %s/%s: %s", e.City, e.DocName, e.Reason)
	if e.Zone != "" {
		fmt.Fprintf(&b, " (zone %s", e.Zone)
		if e.Other != "" {
			fmt.Fprintf(&b, "/%s", e.Other)
		}
		if e.Range.StartPage > 0 {
			fmt.Fprintf(&b, ", %s", e.Range)
		}
		b.WriteString(")")
	}
	return b.String()
}

// ZoneIDs returns the mapped zone identifiers in sorted order.
func (m *ZoneMapping) ZoneIDs() []string {
	ids := make([]string, 0, len(m.Zones))
	for id := range m.Zones {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pages returns the page numbers assigned to a zone, in range order.
func (m *ZoneMapping) Pages(zone string) []int {
	var out []int
	for _, r := range m.Zones[zone] {
		out = append(out, r.Pages()...)
	}
	return out
}

// Validate applies the acceptance policy against a document with lastPage
// pages. On any violation it returns an *InferenceError; a nil return means
// the mapping is accepted.
func (m *ZoneMapping) Validate(lastPage int) error {
	owner := make(map[int]string) // page -> zone that claimed it

	for _, zone := range m.ZoneIDs() {
		for _, r := range m.Zones[zone] {
			if r.StartPage > r.EndPage {
				return &InferenceError{
					City: m.City, DocName: m.DocName, Zone: zone, Range: r,
					Reason: "range start after end",
				}
			}
			if r.StartPage < 1 || r.EndPage > lastPage {
				return &InferenceError{
					City: m.City, DocName: m.DocName, Zone: zone, Range: r,
					Reason: fmt.Sprintf("range outside document pages 1-%d", lastPage),
				}
			}
			for p := r.StartPage; p <= r.EndPage; p++ {
				if prev, taken := owner[p]; taken {
					conflict := overlapSpan(m.Zones[prev], r)
					return &InferenceError{
						City: m.City, DocName: m.DocName,
						Zone: prev, Other: zone, Range: conflict,
						Reason: "zones claim overlapping pages",
					}
				}
				owner[p] = zone
			}
		}
	}
	return nil
}

// overlapSpan returns the span of pages shared between a range and any of
// the earlier zone's ranges, for error reporting.
func overlapSpan(earlier []PageRange, r PageRange) PageRange {
	span := PageRange{}
	for _, e := range earlier {
		lo := max(e.StartPage, r.StartPage)
		hi := min(e.EndPage, r.EndPage)
		if lo > hi {
			continue
		}
		if span.StartPage == 0 || lo < span.StartPage {
			span.StartPage = lo
		}
		if hi > span.EndPage {
			span.EndPage = hi
		}
	}
	if span.StartPage == 0 {
		// Same-zone duplicate range; report the offending range itself.
		return r
	}
	return span
}
