// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/pdiddy/deckdown/pkg/types"
)

// parseHTML renders the model and parses the artifact back into a node tree,
// so assertions run against the real document structure.
func parseHTML(t *testing.T, model types.OutputModel) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	s := &HTML{EquationRules: mathRules}
	require.NoError(t, s.Write(&buf, model))
	doc, err := html.Parse(&buf)
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// collect gathers all element nodes matching tag, in document order.
func collect(doc *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func TestHTML_Structure(t *testing.T) {
	doc := parseHTML(t, sampleModel())

	h1 := collect(doc, "h1")
	require.Len(t, h1, 1)
	assert.Equal(t, "Astrodynamics", nodeText(h1[0]))

	sections := collect(doc, "section")
	require.Len(t, sections, 2)
	assert.Equal(t, "orbital-mechanics", attr(sections[0], "id"))
	assert.Equal(t, "propagator-core", attr(sections[1], "id"))

	h2 := collect(doc, "h2")
	require.Len(t, h2, 2)
	assert.Equal(t, "Orbital Mechanics", nodeText(h2[0]))
}

func TestHTML_TOCLinksResolve(t *testing.T) {
	doc := parseHTML(t, sampleModel())

	ids := map[string]bool{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := attr(n, "id"); id != "" {
				assert.False(t, ids[id], "duplicate id %q", id)
				ids[id] = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	links := collect(doc, "a")
	require.NotEmpty(t, links)
	for _, a := range links {
		href := attr(a, "href")
		require.True(t, strings.HasPrefix(href, "#"), "toc link %q", href)
		assert.True(t, ids[strings.TrimPrefix(href, "#")], "dangling link %q", href)
	}
}

func TestHTML_ListNesting(t *testing.T) {
	doc := parseHTML(t, sampleModel())

	items := collect(doc, "li")
	texts := make([]string, 0, len(items))
	for _, li := range items {
		texts = append(texts, nodeText(li))
	}
	assert.Contains(t, texts, "Kepler's laws")

	// The sub-bullet sits inside a nested ul, so the outer li contains it.
	var nested bool
	for _, ul := range collect(doc, "ul") {
		for _, inner := range collect(ul, "ul") {
			if inner != ul {
				nested = true
			}
		}
	}
	assert.True(t, nested, "sub-bullet did not produce a nested list")
}

func TestHTML_EquationBlockAndMathSpans(t *testing.T) {
	doc := parseHTML(t, sampleModel())

	var eqDivs []*html.Node
	for _, div := range collect(doc, "div") {
		if attr(div, "class") == "eq" {
			eqDivs = append(eqDivs, div)
		}
	}
	// The two consecutive equation lines merge into one display block.
	require.Len(t, eqDivs, 1)
	text := nodeText(eqDivs[0])
	assert.Contains(t, text, "a = -GM/r²")
	assert.Contains(t, text, "v² = GM(2/r - 1/a)")

	var mathSpan bool
	for _, span := range collect(doc, "span") {
		if attr(span, "class") == "math" {
			mathSpan = true
		}
	}
	assert.True(t, mathSpan)
}

func TestHTML_CodeBlock(t *testing.T) {
	doc := parseHTML(t, sampleModel())

	pres := collect(doc, "pre")
	require.Len(t, pres, 1)
	text := nodeText(pres[0])
	assert.Contains(t, text, "state = step(state, dt);")
	assert.Contains(t, text, "t += dt;")
}

func TestHTML_ImagesInlined(t *testing.T) {
	doc := parseHTML(t, sampleModel())

	imgs := collect(doc, "img")
	require.Len(t, imgs, 2)
	assert.True(t, strings.HasPrefix(attr(imgs[0], "src"), "data:image/jpeg;base64,"))
	assert.Equal(t, "Slide 1 Figure 1", attr(imgs[0], "alt"))

	assert.True(t, strings.HasPrefix(attr(imgs[1], "src"), "data:image/png;base64,"))
	assert.Equal(t, "slide-img", attr(imgs[1], "class"))
}

func TestHTML_Table(t *testing.T) {
	doc := parseHTML(t, sampleModel())

	ths := collect(doc, "th")
	require.Len(t, ths, 2)
	assert.Equal(t, "Body", nodeText(ths[0]))

	tds := collect(doc, "td")
	require.Len(t, tds, 2)
	assert.Equal(t, "Earth", nodeText(tds[0]))
}

func TestHTML_EscapesContent(t *testing.T) {
	model := types.OutputModel{
		Title: "A <b>hostile</b> title",
		Pages: []types.PageRecord{{
			SourceDoc: "x.pdf",
			Lines: []types.ClassifiedLine{
				classified(types.RoleBody, `<script>alert("x")</script>`),
			},
		}},
		TOC: []types.TOCEntry{{Title: "A <b>hostile</b> title", Anchor: "p"}},
	}

	var buf bytes.Buffer
	s := &HTML{}
	require.NoError(t, s.Write(&buf, model))
	out := buf.String()
	assert.NotContains(t, out, `<script>alert`)
	assert.NotContains(t, out, "<b>hostile</b>")
}

func TestHTML_StyleSpans(t *testing.T) {
	model := types.OutputModel{
		Title: "Styles",
		Pages: []types.PageRecord{{
			SourceDoc: "x.pdf",
			Lines: []types.ClassifiedLine{{
				Text: "plain bold italic",
				Role: types.RoleBody,
				Spans: []types.StyledSpan{
					{Text: "plain ", Signal: types.FontSignal{Family: "Arial"}},
					{Text: "bold", Signal: types.FontSignal{Family: "Arial", Bold: true}},
					{Text: " italic", Signal: types.FontSignal{Family: "Arial", Italic: true}},
				},
			}},
		}},
		TOC: []types.TOCEntry{{Title: "Styles", Anchor: "styles"}},
	}

	doc := parseHTML(t, model)
	strongs := collect(doc, "strong")
	require.Len(t, strongs, 1)
	assert.Equal(t, "bold", nodeText(strongs[0]))
	ems := collect(doc, "em")
	require.Len(t, ems, 1)
	assert.Equal(t, " italic", nodeText(ems[0]))
}
