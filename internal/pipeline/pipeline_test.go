// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deckdown/internal/deck"
	"github.com/pdiddy/deckdown/pkg/types"
)

type fakeDoc struct {
	pages  []deck.Page
	closed bool
}

func (d *fakeDoc) NumPages() int { return len(d.pages) }

func (d *fakeDoc) Page(i int) (deck.Page, error) { return d.pages[i], nil }

func (d *fakeDoc) Render(i int, dpi float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 320, 240)), nil
}

func (d *fakeDoc) CanRender() bool { return true }
func (d *fakeDoc) Close() error    { d.closed = true; return nil }

func textLine(text string, size float64) deck.Line {
	return deck.Line{Runs: []deck.TextRun{{Text: text, Family: "Arial", SizePt: size}}}
}

// lectureDoc is a three-page deck exercising the main classification paths:
// a text slide, a vector-heavy diagram slide, and a code slide.
func lectureDoc() *fakeDoc {
	return &fakeDoc{pages: []deck.Page{
		{Lines: []deck.Line{
			textLine("Orbital Mechanics", 40),
			textLine("Kepler's first law", 28),
			textLine("Kepler's second law", 28),
		}},
		{
			Lines:         []deck.Line{textLine("System Diagram", 40)},
			VectorObjects: 12,
		},
		{Lines: []deck.Line{
			textLine("Propagator Core", 40),
			textLine("for step in range(n):", 14),
			textLine("    state = integrate(state, dt)", 14),
			textLine("    t += dt", 14),
			textLine("    log(t, state)", 14),
		}},
	}}
}

func openerFor(docs map[string]deck.Document) func(string) (deck.Document, error) {
	return func(path string) (deck.Document, error) {
		doc, ok := docs[path]
		if !ok {
			return nil, &deck.UnreadableError{Path: path, Err: errors.New("corrupt file")}
		}
		return doc, nil
	}
}

func defaultOpts(open func(string) (deck.Document, error)) Options {
	return Options{Config: types.DefaultConfig(), Open: open}
}

func TestRun_SingleDocument(t *testing.T) {
	doc := lectureDoc()
	var out bytes.Buffer

	res, err := Run(context.Background(), []string{"astro.pdf"},
		defaultOpts(openerFor(map[string]deck.Document{"astro.pdf": doc})), &out)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Converted)
	assert.Equal(t, 0, res.Skipped)
	assert.True(t, doc.closed)
	require.Len(t, res.Model.Pages, 3)
	assert.Equal(t, "astro", res.Model.Title)

	// Page 1: title plus bullets, no render.
	p1 := res.Model.Pages[0]
	assert.Equal(t, "Orbital Mechanics", p1.Title)
	assert.Equal(t, types.RoleTitle, p1.Lines[0].Role)
	assert.Equal(t, types.RoleBullet, p1.Lines[1].Role)
	assert.Equal(t, types.RoleBullet, p1.Lines[2].Role)
	assert.Nil(t, p1.Render)

	// Page 2: vector-heavy, rendered as an image.
	p2 := res.Model.Pages[1]
	assert.Equal(t, types.RenderFullPage, p2.Decision.Mode)
	assert.Equal(t, types.ReasonHasVectorGraphic, p2.Decision.Reason)
	require.NotNil(t, p2.Render)
	assert.Equal(t, "png", p2.Render.Ext)

	// Page 3: four consecutive code lines below the title, no render.
	p3 := res.Model.Pages[2]
	for _, l := range p3.Lines[1:] {
		assert.Equal(t, types.RoleCode, l.Role)
	}
	assert.Equal(t, types.RenderNone, p3.Decision.Mode)
	assert.Nil(t, p3.Render)

	assert.Contains(t, out.String(), "converting: astro.pdf (3 pages)")
	assert.Contains(t, out.String(), "1/3 pages rendered")
}

func TestRun_SkipsUnreadableDocument(t *testing.T) {
	docs := map[string]deck.Document{
		"a.pdf": lectureDoc(),
		"c.pdf": lectureDoc(),
	}
	var out bytes.Buffer

	res, err := Run(context.Background(), []string{"a.pdf", "broken.pdf", "c.pdf"},
		defaultOpts(openerFor(docs)), &out)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Converted)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Model.Pages, 6)

	// The surviving documents keep command-line order.
	assert.Equal(t, "a.pdf", res.Model.Pages[0].SourceDoc)
	assert.Equal(t, "c.pdf", res.Model.Pages[3].SourceDoc)

	var skipWarning *types.Warning
	for i := range res.Warnings {
		if res.Warnings[i].Doc == "broken.pdf" {
			skipWarning = &res.Warnings[i]
		}
	}
	require.NotNil(t, skipWarning)
	assert.Equal(t, -1, skipWarning.PageIndex)
	assert.Contains(t, skipWarning.Message, "document skipped")
	assert.Contains(t, out.String(), "skipped: broken.pdf")
}

func TestRun_AllUnreadable(t *testing.T) {
	var out bytes.Buffer
	res, err := Run(context.Background(), []string{"x.pdf", "y.pdf"},
		defaultOpts(openerFor(nil)), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input document")
	assert.Equal(t, 2, res.Skipped)
}

func TestRun_MergedTitle(t *testing.T) {
	docs := map[string]deck.Document{
		"week1.pdf": lectureDoc(),
		"week2.pdf": lectureDoc(),
	}
	var out bytes.Buffer

	res, err := Run(context.Background(), []string{"week1.pdf", "week2.pdf"},
		defaultOpts(openerFor(docs)), &out)
	require.NoError(t, err)
	assert.Equal(t, "Combined: week1, week2", res.Model.Title)

	// Identical titles across decks still get unique anchors.
	seen := map[string]bool{}
	for _, e := range res.Model.TOC {
		assert.False(t, seen[e.Anchor], "duplicate anchor %q", e.Anchor)
		seen[e.Anchor] = true
	}
}

func TestRun_TitleOverride(t *testing.T) {
	opts := defaultOpts(openerFor(map[string]deck.Document{"astro.pdf": lectureDoc()}))
	opts.Config.Output.Title = "Astrodynamics 101"
	var out bytes.Buffer

	res, err := Run(context.Background(), []string{"astro.pdf"}, opts, &out)
	require.NoError(t, err)
	assert.Equal(t, "Astrodynamics 101", res.Model.Title)
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := Run(ctx, []string{"astro.pdf"},
		defaultOpts(openerFor(map[string]deck.Document{"astro.pdf": lectureDoc()})), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_RenderPolicyNever(t *testing.T) {
	opts := defaultOpts(openerFor(map[string]deck.Document{"astro.pdf": lectureDoc()}))
	opts.Config.Render.Policy = types.RenderPolicyNever
	var out bytes.Buffer

	res, err := Run(context.Background(), []string{"astro.pdf"}, opts, &out)
	require.NoError(t, err)
	for _, p := range res.Model.Pages {
		assert.Nil(t, p.Render)
		assert.Equal(t, types.RenderNone, p.Decision.Mode)
	}
	assert.NotContains(t, out.String(), "rendered as images")
}
