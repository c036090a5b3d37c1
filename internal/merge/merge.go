// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge concatenates per-document page sequences into the final
// output model and builds the title-derived table of contents with unique
// anchors. Repeated slides across documents are kept as-is: the product is
// one merged reference document, not a deduplicated one.
package merge

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pdiddy/deckdown/pkg/types"
)

// DocPages is one input document's assembled pages, in page order.
type DocPages struct {
	// Path is the input path, used for document-qualified anchors.
	Path string

	// Pages are the document's page records in page order.
	Pages []types.PageRecord
}

// Merge builds the output model from per-document page sequences given in
// command-line order. Page order within a document and document order across
// documents are both preserved. The model is complete on return and never
// mutated afterwards.
func Merge(title string, docs []DocPages) types.OutputModel {
	model := types.OutputModel{Title: title}
	anchors := newAnchorSet()

	for di, doc := range docs {
		for _, rec := range doc.Pages {
			model.Pages = append(model.Pages, rec)
			model.TOC = append(model.TOC, types.TOCEntry{
				Title:     tocTitle(rec),
				Anchor:    anchors.next(anchorBase(rec, doc.Path)),
				DocIndex:  di,
				PageIndex: rec.PageIndex,
			})
		}
	}
	return model
}

// tocTitle is the display title for a page: its own title, or a positional
// fallback so untitled pages still appear in the table of contents.
func tocTitle(rec types.PageRecord) string {
	if rec.Title != "" {
		return rec.Title
	}
	return fmt.Sprintf("Slide %d", rec.PageIndex+1)
}

// anchorBase is the anchor slug before collision handling. Untitled pages
// get a document-qualified page slug so the anchor stays meaningful.
func anchorBase(rec types.PageRecord, docPath string) string {
	if s := Slug(rec.Title); s != "" {
		return s
	}
	stem := Slug(strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath)))
	if stem == "" {
		return fmt.Sprintf("page-%d", rec.PageIndex+1)
	}
	return fmt.Sprintf("%s-page-%d", stem, rec.PageIndex+1)
}

// anchorSet hands out pairwise-unique anchors. Colliding slugs get a
// zero-based occurrence suffix: overview, overview-1, overview-2. A suffixed
// anchor can itself collide with a literal title, so the probe loops until
// an unused anchor falls out.
type anchorSet struct {
	counts map[string]int
	used   map[string]bool
}

func newAnchorSet() *anchorSet {
	return &anchorSet{counts: map[string]int{}, used: map[string]bool{}}
}

func (a *anchorSet) next(base string) string {
	if base == "" {
		base = "page"
	}
	for {
		n := a.counts[base]
		a.counts[base]++
		anchor := base
		if n > 0 {
			anchor = fmt.Sprintf("%s-%d", base, n)
		}
		if !a.used[anchor] {
			a.used[anchor] = true
			return anchor
		}
	}
}

// Slug lowercases s and collapses every non-alphanumeric run into a single
// hyphen. An all-symbol title slugs to the empty string.
func Slug(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
