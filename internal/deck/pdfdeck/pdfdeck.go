// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdeck reads PDF slide decks. Text runs with font metadata come
// from the pure-Go pdf reader; page rasterization and the graphics probe go
// through MuPDF, whose SVG output exposes the page's vector drawings and
// embedded rasters.
package pdfdeck

import (
	"fmt"
	"image"
	"os"
	"sort"

	"github.com/gen2brain/go-fitz"
	pdflib "github.com/ledongthuc/pdf"

	"github.com/pdiddy/deckdown/internal/deck"
)

func init() {
	deck.Register(".pdf", Open)
}

// rowTolerance is the Y distance in points within which runs belong to the
// same text line.
const rowTolerance = 3.0

type document struct {
	path   string
	file   *os.File
	reader *pdflib.Reader
	fz     *fitz.Document
}

// Open opens a PDF for page extraction. Both underlying readers are opened
// up front so a corrupt file fails here, not per page.
func Open(path string) (deck.Document, error) {
	file, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, &deck.UnreadableError{Path: path, Err: err}
	}
	fz, err := fitz.New(path)
	if err != nil {
		file.Close()
		return nil, &deck.UnreadableError{Path: path, Err: err}
	}
	return &document{path: path, file: file, reader: reader, fz: fz}, nil
}

func (d *document) NumPages() int { return d.reader.NumPage() }

func (d *document) CanRender() bool { return true }

func (d *document) Render(i int, dpi float64) (image.Image, error) {
	img, err := d.fz.ImageDPI(i, dpi)
	if err != nil {
		return nil, fmt.Errorf("rasterizing page %d: %w", i+1, err)
	}
	return img, nil
}

func (d *document) Close() error {
	ferr := d.file.Close()
	zerr := d.fz.Close()
	if ferr != nil {
		return ferr
	}
	return zerr
}

// Page decodes the zero-based page i. The content-stream reader panics on
// malformed streams, so decoding is fenced and a panic surfaces as a page
// error rather than killing the document.
func (d *document) Page(i int) (page deck.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &deck.PageError{Path: d.path, PageIndex: i, Err: fmt.Errorf("content stream: %v", r)}
		}
	}()

	p := d.reader.Page(i + 1)
	if p.V.IsNull() {
		return deck.Page{}, &deck.PageError{Path: d.path, PageIndex: i, Err: fmt.Errorf("missing page object")}
	}

	height := mediaBoxHeight(p)
	page.Height = height
	page.Lines = textLines(p.Content().Text, height)

	if svg, svgErr := d.fz.SVG(i); svgErr == nil {
		page.VectorObjects = countVectorObjects(svg)
		page.Images = extractImages(svg)
	}
	// A failed probe means no graphics metadata, which is treated as no
	// vector graphics present.
	return page, nil
}

// mediaBoxHeight resolves the page height from the MediaBox, walking up the
// page tree for inherited boxes. Zero when absent.
func mediaBoxHeight(p pdflib.Page) float64 {
	v := p.V
	for !v.IsNull() {
		if mb := v.Key("MediaBox"); mb.Len() == 4 {
			return mb.Index(3).Float64() - mb.Index(1).Float64()
		}
		v = v.Key("Parent")
	}
	return 0
}

// textLines groups positioned text fragments into reading-order lines.
// Fragments sharing a baseline within rowTolerance form one line; fragments
// with the same font and size merge into one run. Y flips from PDF
// bottom-origin to top-origin.
func textLines(texts []pdflib.Text, pageHeight float64) []deck.Line {
	frags := make([]pdflib.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			frags = append(frags, t)
		}
	}
	if len(frags) == 0 {
		return nil
	}

	// Top of page first, then left to right.
	sort.SliceStable(frags, func(a, b int) bool {
		if diff := frags[a].Y - frags[b].Y; diff > rowTolerance || diff < -rowTolerance {
			return frags[a].Y > frags[b].Y
		}
		return frags[a].X < frags[b].X
	})

	var lines []deck.Line
	var cur []pdflib.Text
	flush := func() {
		if len(cur) == 0 {
			return
		}
		lines = append(lines, buildLine(cur, pageHeight))
		cur = nil
	}
	for _, f := range frags {
		if len(cur) > 0 {
			diff := cur[0].Y - f.Y
			if diff > rowTolerance || diff < -rowTolerance {
				flush()
			}
		}
		cur = append(cur, f)
	}
	flush()
	return lines
}

func buildLine(frags []pdflib.Text, pageHeight float64) deck.Line {
	line := deck.Line{}
	if pageHeight > 0 {
		line.Y = pageHeight - frags[0].Y
	}
	for _, f := range frags {
		n := len(line.Runs)
		if n > 0 && line.Runs[n-1].Family == f.Font && line.Runs[n-1].SizePt == f.FontSize {
			line.Runs[n-1].Text += f.S
			continue
		}
		line.Runs = append(line.Runs, deck.TextRun{
			Text:   f.S,
			Family: f.Font,
			SizePt: f.FontSize,
		})
	}
	return line
}
