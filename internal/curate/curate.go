// Package curate filters low-value content out of a zone document before it
// is handed to analysis. Classification is rule-based pattern matching, and
// the rules are data: each city can ship its own denylist.
package curate

import (
	"github.com/mawa-labs/mawa/internal/document"
)

// Options controls context-dependent filtering.
type Options struct {
	// IncludeContextSections keeps PADD and presentation-report content in
	// the output. Default false: those sections are filtered. The source
	// material is ambivalent about the right default, so it is the caller's
	// choice, surfaced as configuration.
	IncludeContextSections bool
}

// Apply returns a new document with pages and blocks matching the denylist
// removed. Page removal is transitive for that page's assets; assets still
// referenced by a retained page survive. OriginPageNumbers is filtered in
// lock-step with retained pages, preserving traceability to the source PDF.
func Apply(doc *document.Document, rules *RuleSet, opts Options) *document.Document {
	out := *doc
	out.Pages = nil
	out.OriginPageNumbers = nil
	out.Assets = nil

	hasOrigins := len(doc.OriginPageNumbers) == len(doc.Pages)

	for i, page := range doc.Pages {
		kept, ok := rules.curatePage(page, opts)
		if !ok {
			continue
		}
		kept.PageNumber = len(out.Pages) + 1
		out.Pages = append(out.Pages, kept)
		if hasOrigins {
			out.OriginPageNumbers = append(out.OriginPageNumbers, doc.OriginPageNumbers[i])
		}
	}

	// Keep only assets referenced by a retained page.
	needed := make(map[string]bool)
	for _, page := range out.Pages {
		for _, ref := range page.Assets {
			needed[ref.ID] = true
		}
	}
	for _, a := range doc.Assets {
		if needed[a.ID] {
			asset := a
			asset.Data = append([]byte(nil), a.Data...)
			out.Assets = append(out.Assets, asset)
		}
	}

	return &out
}

// curatePage filters one page. Returns false when the whole page is
// removed: either a page-scope rule matched one of its blocks, or nothing
// of substance remained after block filtering.
func (rs *RuleSet) curatePage(page document.Page, opts Options) (document.Page, bool) {
	for _, block := range page.Blocks {
		if rs.matches(block, ScopePage, opts) {
			return document.Page{}, false
		}
	}

	kept := document.ClonePage(page)
	kept.Blocks = kept.Blocks[:0]
	for _, block := range page.Blocks {
		if rs.matches(block, ScopeBlock, opts) {
			continue
		}
		kept.Blocks = append(kept.Blocks, block)
	}

	if blank(kept.Blocks) {
		return document.Page{}, false
	}
	return kept, true
}

func (rs *RuleSet) matches(block document.Block, scope Scope, opts Options) bool {
	normalized := document.NormalizeText(block.Text)
	for _, r := range rs.rules {
		if r.Scope != scope {
			continue
		}
		if r.Category.ContextDependent() && opts.IncludeContextSections {
			continue
		}
		if r.re.MatchString(normalized) {
			return true
		}
	}
	return false
}

func blank(blocks []document.Block) bool {
	for _, b := range blocks {
		if document.NormalizeText(b.Text) != "" {
			return false
		}
	}
	return true
}
