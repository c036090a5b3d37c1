// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble builds one PageRecord per source page from classified
// lines, extracted rasters, and the render decision. Corrupt pages become
// placeholder records so page counts and the table of contents stay correct.
package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/pdiddy/deckdown/internal/classify"
	"github.com/pdiddy/deckdown/internal/deck"
	"github.com/pdiddy/deckdown/internal/render"
	"github.com/pdiddy/deckdown/pkg/types"
)

// Assembler produces page records for one source document.
type Assembler struct {
	classifier *classify.Classifier
	evaluator  *render.Evaluator
	sourceDoc  string
}

// New returns an assembler for the document at sourceDoc.
func New(sourceDoc string, c *classify.Classifier, e *render.Evaluator) *Assembler {
	return &Assembler{classifier: c, evaluator: e, sourceDoc: sourceDoc}
}

// Page assembles the record for page i of doc. Construction is pure except
// for the optional full-page render pulled from the backend. A page decode
// failure is recovered into a placeholder record and reported as a warning;
// the page is never dropped from the sequence.
func (a *Assembler) Page(doc deck.Document, i int) (types.PageRecord, []types.Warning) {
	page, err := doc.Page(i)
	if err != nil {
		return a.placeholder(i), []types.Warning{{
			Doc:       a.sourceDoc,
			PageIndex: i,
			Message:   fmt.Sprintf("page could not be decoded: %v", err),
		}}
	}

	lines := a.classifier.Page(i, classify.ExtractLines(page))
	decision := a.evaluator.Evaluate(i, lines, page.VectorObjects)

	rec := types.PageRecord{
		SourceDoc: a.sourceDoc,
		PageIndex: i,
		Title:     firstTitle(lines),
		Lines:     lines,
		Images:    pageImages(page, i),
		Tables:    pageTables(page),
		Decision:  decision,
	}

	var warnings []types.Warning
	if decision.Mode == types.RenderFullPage {
		blob, err := a.renderPage(doc, i)
		switch {
		case errors.Is(err, deck.ErrRenderUnsupported):
			// Keep the decision on record; the backend just cannot
			// satisfy it.
			warnings = append(warnings, types.Warning{
				Doc:       a.sourceDoc,
				PageIndex: i,
				Message:   "page needs a full-page render but this format cannot be rasterized",
			})
		case err != nil:
			warnings = append(warnings, types.Warning{
				Doc:       a.sourceDoc,
				PageIndex: i,
				Message:   fmt.Sprintf("page render failed: %v", err),
			})
		default:
			rec.Render = blob
		}
	}
	return rec, warnings
}

// placeholder is the record for a page that could not be decoded: empty
// line and image sets, render skipped.
func (a *Assembler) placeholder(i int) types.PageRecord {
	return types.PageRecord{
		SourceDoc: a.sourceDoc,
		PageIndex: i,
		Decision: types.RenderDecision{
			PageIndex: i,
			Mode:      types.RenderNone,
			Reason:    types.ReasonForcedSkip,
		},
	}
}

// firstTitle is the text of the first title-classified line, or empty.
func firstTitle(lines []types.ClassifiedLine) string {
	for _, l := range lines {
		if l.Role == types.RoleTitle {
			return l.Text
		}
	}
	return ""
}

func pageImages(page deck.Page, pageIndex int) []types.ImageBlob {
	if len(page.Images) == 0 {
		return nil
	}
	blobs := make([]types.ImageBlob, len(page.Images))
	for j, img := range page.Images {
		blobs[j] = types.ImageBlob{
			Data: img.Data,
			Ext:  img.Ext,
			Alt:  fmt.Sprintf("Slide %d Figure %d", pageIndex+1, j+1),
		}
	}
	return blobs
}

func pageTables(page deck.Page) []types.Table {
	if len(page.Tables) == 0 {
		return nil
	}
	tables := make([]types.Table, len(page.Tables))
	for j, rows := range page.Tables {
		tables[j] = types.Table{Rows: rows}
	}
	return tables
}

// renderPage rasterizes page i at the configured DPI, downscales it to the
// configured width, and PNG-encodes it.
func (a *Assembler) renderPage(doc deck.Document, i int) (*types.ImageBlob, error) {
	cfg := a.evaluator.Config()
	img, err := doc.Render(i, cfg.DPI)
	if err != nil {
		return nil, err
	}
	img = downscale(img, cfg.MaxRenderWidth)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding render: %w", err)
	}
	return &types.ImageBlob{
		Data: buf.Bytes(),
		Ext:  "png",
		Alt:  fmt.Sprintf("Slide %d", i+1),
	}, nil
}

// downscale resizes img to maxWidth when it is wider, preserving aspect
// ratio. maxWidth 0 disables scaling.
func downscale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
