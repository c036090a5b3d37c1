// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives a conversion run: open each input document, walk
// its pages through extraction, classification, render evaluation, and
// assembly, then merge everything into one output model. An unreadable
// document is skipped with a warning; the run fails only when no document
// could be read at all.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/deckdown/internal/assemble"
	"github.com/pdiddy/deckdown/internal/classify"
	"github.com/pdiddy/deckdown/internal/deck"
	"github.com/pdiddy/deckdown/internal/merge"
	"github.com/pdiddy/deckdown/internal/render"
	"github.com/pdiddy/deckdown/pkg/types"
)

// Options configures a conversion run.
type Options struct {
	// Config holds the pipeline tunables.
	Config types.Config

	// Rules are the classifier rule sets; zero value means defaults.
	Rules classify.RuleSet

	// Open overrides deck.Open, for tests. Nil uses the registry.
	Open func(path string) (deck.Document, error)
}

// Result is the outcome of a conversion run.
type Result struct {
	// Model is the merged output, complete even when some documents were
	// skipped.
	Model types.OutputModel

	// Warnings lists every non-fatal problem, in encounter order.
	Warnings []types.Warning

	// Converted and Skipped count input documents.
	Converted int
	Skipped   int
}

// Run converts the documents at paths, in the order given, into one output
// model. Progress and warnings are printed to w as they happen. Returns an
// error only when zero documents could be read.
func Run(ctx context.Context, paths []string, opts Options, w io.Writer) (Result, error) {
	if len(opts.Rules.EquationFamilies) == 0 {
		opts.Rules = classify.DefaultRules()
	}
	open := opts.Open
	if open == nil {
		open = deck.Open
	}

	classifier := classify.New(opts.Config.Classify, opts.Rules)
	evaluator := render.New(opts.Config.Render)

	var result Result
	var docs []merge.DocPages
	for _, path := range paths {
		pages, warnings, err := convertDoc(ctx, path, open, classifier, evaluator, w)
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Skipped++
			result.Warnings = append(result.Warnings, types.Warning{
				Doc:       path,
				PageIndex: -1,
				Message:   fmt.Sprintf("document skipped: %v", err),
			})
			fmt.Fprintf(w, "skipped: %s (%v)\n", path, err)
			continue
		}
		result.Converted++
		docs = append(docs, merge.DocPages{Path: path, Pages: pages})
	}

	if result.Converted == 0 {
		return result, errors.New("no input document could be parsed")
	}

	result.Model = merge.Merge(deriveTitle(opts.Config.Output.Title, docs), docs)
	return result, nil
}

// convertDoc opens one document, assembles every page in order, and closes
// it. The document handle never outlives this function, including on
// mid-document failure.
func convertDoc(ctx context.Context, path string, open func(string) (deck.Document, error),
	classifier *classify.Classifier, evaluator *render.Evaluator, w io.Writer) ([]types.PageRecord, []types.Warning, error) {

	doc, err := open(path)
	if err != nil {
		return nil, nil, err
	}
	defer doc.Close()

	n := doc.NumPages()
	fmt.Fprintf(w, "converting: %s (%d pages)\n", path, n)

	asm := assemble.New(path, classifier, evaluator)
	pages := make([]types.PageRecord, 0, n)
	var warnings []types.Warning
	rendered := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, warnings, err
		}
		rec, pageWarnings := asm.Page(doc, i)
		warnings = append(warnings, pageWarnings...)
		if rec.Render != nil {
			rendered++
		}
		pages = append(pages, rec)
	}
	if rendered > 0 {
		fmt.Fprintf(w, "  %d/%d pages rendered as images\n", rendered, n)
	}
	return pages, warnings, nil
}

// deriveTitle picks the output document title: the configured override, the
// single input's stem, or a combined listing for merges.
func deriveTitle(override string, docs []merge.DocPages) string {
	if override != "" {
		return override
	}
	stems := make([]string, len(docs))
	for i, d := range docs {
		stems[i] = strings.TrimSuffix(filepath.Base(d.Path), filepath.Ext(d.Path))
	}
	if len(stems) == 1 {
		return stems[0]
	}
	return "Combined: " + strings.Join(stems, ", ")
}
