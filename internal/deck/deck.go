// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deck defines the document-parser boundary: a Document yields pages
// of positioned text runs with font metadata, embedded raster blobs, and
// graphics presence, and can optionally rasterize a page. Concrete backends
// live in the pdfdeck and pptxdeck subpackages.
package deck

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat marks an input that is neither PDF nor PPTX. The
// pipeline treats it the same as an unreadable document.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// ErrRenderUnsupported is returned by backends that cannot rasterize pages.
var ErrRenderUnsupported = errors.New("page rendering not supported")

// UnreadableError wraps a whole-document open/parse failure.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("unreadable document %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// PageError wraps a single-page decode failure within an otherwise readable
// document. The assembler recovers it into a placeholder record.
type PageError struct {
	Path      string
	PageIndex int
	Err       error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("%s: page %d: %v", e.Path, e.PageIndex+1, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// TextRun is one producer-level run of text with its raw font metadata.
// Family may be empty when the producer omitted it.
type TextRun struct {
	Text   string
	Family string
	SizePt float64
	Bold   bool
	Italic bool
}

// LineHint is structural knowledge a backend already has about a line,
// e.g. PPTX placeholder types and paragraph levels. Backends without such
// knowledge leave HintNone and the classifier falls back to font heuristics.
type LineHint int

const (
	HintNone LineHint = iota
	HintTitle
	HintBullet
	HintSubBullet
)

// Line is one on-page text line in reading order.
type Line struct {
	// Runs are the line's text runs in reading order.
	Runs []TextRun

	// Y is the line's vertical position from the page top, in the page's
	// own units; backends without geometry use the line ordinal.
	Y float64

	// Hint carries backend structural knowledge, if any.
	Hint LineHint
}

// Image is an embedded raster blob as extracted from the page.
type Image struct {
	Data []byte
	Ext  string
}

// Page is everything a backend can report about one page.
type Page struct {
	// Lines are the page's text lines in on-page vertical order.
	Lines []Line

	// Images are embedded raster blobs in discovery order.
	Images []Image

	// Tables are table shapes with their cell text (presentation input).
	Tables [][][]string

	// VectorObjects counts vector drawing objects that are not extractable
	// as standalone rasters. Zero when the backend has no graphics
	// metadata.
	VectorObjects int

	// Height is the page height in the page's own units, used for
	// position-relative heuristics; zero when unknown.
	Height float64
}

// Document is an open input document. Implementations must release all
// resources in Close even after a mid-document failure.
type Document interface {
	// NumPages reports the page count.
	NumPages() int

	// Page decodes the zero-based page i. A corrupt page returns a
	// *PageError; the rest of the document remains readable.
	Page(i int) (Page, error)

	// Render rasterizes page i at the given resolution, or returns
	// ErrRenderUnsupported when the backend cannot rasterize.
	Render(i int, dpi float64) (image.Image, error)

	// CanRender reports whether Render is supported at all.
	CanRender() bool

	// Close releases the underlying file handles.
	Close() error
}

// Opener opens a document at a path. Backends register one per extension.
type Opener func(path string) (Document, error)

// openers maps lowercase extensions to backend constructors. Populated by
// Register from backend init functions.
var openers = map[string]Opener{}

// Register installs an Opener for an extension like ".pdf". Later
// registrations for the same extension win, which lets tests stub backends.
func Register(ext string, open Opener) {
	openers[strings.ToLower(ext)] = open
}

// Supported reports whether the path's extension has a registered backend.
func Supported(path string) bool {
	_, ok := openers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Open opens the document at path with the backend registered for its
// extension. Unknown extensions return an UnreadableError wrapping
// ErrUnsupportedFormat.
func Open(path string) (Document, error) {
	open, ok := openers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, &UnreadableError{Path: path, Err: ErrUnsupportedFormat}
	}
	doc, err := open(path)
	if err != nil {
		var ue *UnreadableError
		if errors.As(err, &ue) {
			return nil, err
		}
		return nil, &UnreadableError{Path: path, Err: err}
	}
	return doc, nil
}

// Text concatenates a line's run texts and trims surrounding whitespace.
func (l Line) Text() string {
	var b strings.Builder
	for _, r := range l.Runs {
		b.WriteString(r.Text)
	}
	return strings.TrimSpace(b.String())
}
