// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/pdiddy/deckdown/pkg/types"
)

// css styles the standalone HTML artifact. Ported from the tool this one
// replaces so existing exports keep their look.
const css = `body { font-family: -apple-system, 'Segoe UI', Arial, sans-serif; max-width: 960px; margin: 40px auto; padding: 20px; line-height: 1.7; color: #1a1a1a; }
h1 { border-bottom: 2px solid #333; padding-bottom: 10px; margin-bottom: 10px; }
nav { margin-bottom: 30px; padding: 15px; background: #f8f9fa; border-radius: 6px; }
nav summary { font-weight: bold; cursor: pointer; }
nav ol { columns: 2; column-gap: 2em; margin: 10px 0 0 0; padding-left: 1.5em; }
nav li { margin: 2px 0; font-size: 0.92em; break-inside: avoid; }
nav a { color: #2471a3; text-decoration: none; }
nav a:hover { text-decoration: underline; }
.slide { margin-bottom: 2em; }
.slide-title { color: #1a5276; margin-top: 2em; padding: 4px 0; border-bottom: 1px solid #ddd; }
ul { margin: 0.3em 0; padding-left: 1.8em; }
li { margin: 0.2em 0; line-height: 1.6; }
.math { font-family: 'Cambria Math', 'STIX Two Math', 'Latin Modern Math', serif; }
.eq { display: block; margin: 0.6em 1.5em; padding: 6px 12px; background: #f0f4f8; border-left: 3px solid #2980b9; font-family: 'Cambria Math', serif; font-size: 1.05em; white-space: pre-wrap; }
img { max-width: 100%; height: auto; margin: 1em 0; display: block; }
.slide-img { max-width: 100%; border: 1px solid #ddd; border-radius: 4px; margin: 0.5em 0; }
pre, code { background: #f5f5f5; font-family: Menlo, Consolas, monospace; font-size: 0.9em; }
pre { padding: 12px; border-radius: 4px; overflow-x: auto; }
code { padding: 2px 5px; border-radius: 3px; }
table { border-collapse: collapse; margin: 1em 0; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f0f0f0; font-weight: bold; }
`

// HTML serializes the model as one standalone HTML document.
type HTML struct {
	// EquationRules classify span families as math for styling; nil means
	// no math styling.
	EquationRules func(family string) bool
}

// Write implements Serializer.
func (h *HTML) Write(w io.Writer, model types.OutputModel) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(model.Title))
	fmt.Fprintf(&b, "<style>\n%s</style>\n</head>\n<body>\n", css)
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(model.Title))

	h.writeTOC(&b, model.TOC)
	for i, page := range model.Pages {
		h.writePage(&b, page, model.TOC[i].Anchor)
	}

	b.WriteString("</body>\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (h *HTML) writeTOC(b *strings.Builder, toc []types.TOCEntry) {
	b.WriteString("<nav><details open><summary>Table of Contents</summary><ol>\n")
	for _, e := range toc {
		fmt.Fprintf(b, "<li><a href=\"#%s\">%s</a></li>\n", e.Anchor, html.EscapeString(e.Title))
	}
	b.WriteString("</ol></details></nav>\n")
}

func (h *HTML) writePage(b *strings.Builder, page types.PageRecord, anchor string) {
	fmt.Fprintf(b, "<section class=\"slide\" id=\"%s\">\n", anchor)
	listDepth := 0

	ensureList := func(depth int) {
		for listDepth < depth {
			b.WriteString("<ul>\n")
			listDepth++
		}
		for listDepth > depth {
			b.WriteString("</ul>\n")
			listDepth--
		}
	}

	for _, group := range mergeEquationRuns(page.Lines) {
		switch group[0].Role {
		case types.RoleTitle:
			ensureList(0)
			fmt.Fprintf(b, "<h2 class=\"slide-title\">%s</h2>\n", h.spans(group[0].Spans))
		case types.RoleBullet:
			ensureList(1)
			fmt.Fprintf(b, "<li>%s</li>\n", h.spans(group[0].Spans))
		case types.RoleSubBullet:
			ensureList(2)
			fmt.Fprintf(b, "<li>%s</li>\n", h.spans(group[0].Spans))
		case types.RoleEquation:
			ensureList(0)
			parts := make([]string, len(group))
			for i, l := range group {
				parts[i] = h.spans(l.Spans)
			}
			fmt.Fprintf(b, "<div class=\"eq\">%s</div>\n", strings.Join(parts, "\n"))
		case types.RoleCode:
			ensureList(0)
			parts := make([]string, len(group))
			for i, l := range group {
				parts[i] = html.EscapeString(l.Text)
			}
			fmt.Fprintf(b, "<pre><code>%s</code></pre>\n", strings.Join(parts, "\n"))
		case types.RoleBody:
			ensureList(0)
			fmt.Fprintf(b, "<p>%s</p>\n", h.spans(group[0].Spans))
		}
	}
	ensureList(0)

	for _, tbl := range page.Tables {
		writeHTMLTable(b, tbl)
	}
	for _, img := range page.Images {
		fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\">\n", dataURI(img), html.EscapeString(img.Alt))
	}
	if page.Render != nil {
		fmt.Fprintf(b, "<img class=\"slide-img\" src=\"%s\" alt=\"%s\">\n",
			dataURI(*page.Render), html.EscapeString(page.Render.Alt))
	}
	b.WriteString("</section>\n")
}

// spans renders styled spans, mapping math families to the math class and
// style bits to strong/em.
func (h *HTML) spans(spans []types.StyledSpan) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		e := html.EscapeString(s.Text)
		switch {
		case h.EquationRules != nil && h.EquationRules(s.Signal.Family):
			fmt.Fprintf(&b, "<span class=\"math\">%s</span>", e)
		case s.Signal.Bold && s.Signal.Italic:
			fmt.Fprintf(&b, "<strong><em>%s</em></strong>", e)
		case s.Signal.Bold:
			fmt.Fprintf(&b, "<strong>%s</strong>", e)
		case s.Signal.Italic:
			fmt.Fprintf(&b, "<em>%s</em>", e)
		default:
			b.WriteString(e)
		}
	}
	return b.String()
}

func writeHTMLTable(b *strings.Builder, tbl types.Table) {
	b.WriteString("<table>\n")
	for ri, row := range tbl.Rows {
		tag := "td"
		if ri == 0 {
			tag = "th"
		}
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(b, "<%s>%s</%s>", tag, html.EscapeString(cell), tag)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
}
