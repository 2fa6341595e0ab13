// Package dedupe removes duplicate embedded assets within a standardized
// document using content hashing. Scanned land-use plans repeat the same
// commune logo or legend on most pages; collapsing those copies keeps the
// serialized document and the downstream prompts small.
//
// Deduplication is within-document only. There is no cross-document cache,
// and no fuzzy matching for near-identical assets: identity is the exact
// hash of the decoded pixel payload.
package dedupe

import (
	"github.com/mawa-labs/mawa/internal/document"
)

// Apply returns a new document with content hashes computed for every block
// and asset, and duplicate assets collapsed to one canonical member with all
// page references rewritten.
//
// Blocks are hashed but never removed: unique-but-low-value block removal is
// the curator's job. Page structure and ordering are untouched.
func Apply(doc *document.Document) *document.Document {
	out := doc.Clone()

	for pi := range out.Pages {
		for bi := range out.Pages[pi].Blocks {
			b := &out.Pages[pi].Blocks[bi]
			b.ContentHash = document.HashText(b.Text)
		}
	}

	// Hash assets and pick the first occurrence of each payload as canonical.
	canonicalByHash := make(map[string]string) // content hash -> canonical asset ID
	idToHash := make(map[string]string)
	canonical := make([]document.Asset, 0, len(out.Assets))

	for i := range out.Assets {
		a := &out.Assets[i]
		a.ContentHash = document.HashImage(a.Data)
		idToHash[a.ID] = a.ContentHash
		if _, seen := canonicalByHash[a.ContentHash]; !seen {
			canonicalByHash[a.ContentHash] = a.ID
			canonical = append(canonical, *a)
		}
	}
	out.Assets = canonical

	// Rewrite page references to point at the canonical asset for their
	// content hash.
	for pi := range out.Pages {
		for ri := range out.Pages[pi].Assets {
			ref := &out.Pages[pi].Assets[ri]
			hash, ok := idToHash[ref.ID]
			if !ok {
				continue // dangling ref, leave as-is
			}
			ref.Hash = hash
			ref.ID = canonicalByHash[hash]
		}
	}

	return out
}
