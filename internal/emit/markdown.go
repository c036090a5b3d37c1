// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/deckdown/pkg/types"
)

// Markdown serializes the model as one self-contained Markdown document.
// Anchors rely on the standard heading-slug convention, so heading text is
// emitted with an explicit anchor span for renderers that honor HTML ids.
type Markdown struct {
	// EquationRules classify span families as math; math text is passed
	// through unescaped to keep its Unicode intact.
	EquationRules func(family string) bool
}

// Write implements Serializer.
func (m *Markdown) Write(w io.Writer, model types.OutputModel) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", model.Title)

	b.WriteString("## Table of Contents\n\n")
	for i, e := range model.TOC {
		fmt.Fprintf(&b, "%d. [%s](#%s)\n", i+1, escapeMarkdown(e.Title), e.Anchor)
	}
	b.WriteString("\n---\n\n")

	lastDoc := ""
	for i, page := range model.Pages {
		if lastDoc != "" && page.SourceDoc != lastDoc {
			b.WriteString("\n---\n\n")
		}
		lastDoc = page.SourceDoc
		m.writePage(&b, page, model.TOC[i].Anchor)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (m *Markdown) writePage(b *strings.Builder, page types.PageRecord, anchor string) {
	fmt.Fprintf(b, "<a id=\"%s\"></a>\n\n", anchor)
	if page.Title == "" && len(page.Lines) > 0 {
		fmt.Fprintf(b, "## Slide %d\n\n", page.PageIndex+1)
	}

	for _, group := range mergeEquationRuns(page.Lines) {
		switch group[0].Role {
		case types.RoleTitle:
			fmt.Fprintf(b, "## %s\n\n", m.spans(group[0].Spans))
		case types.RoleBullet:
			fmt.Fprintf(b, "- %s\n", m.spans(group[0].Spans))
		case types.RoleSubBullet:
			fmt.Fprintf(b, "  - %s\n", m.spans(group[0].Spans))
		case types.RoleEquation:
			b.WriteString("\n")
			for _, l := range group {
				fmt.Fprintf(b, "> %s\n", l.Text)
			}
			b.WriteString("\n")
		case types.RoleCode:
			b.WriteString("\n```\n")
			for _, l := range group {
				b.WriteString(l.Text)
				b.WriteString("\n")
			}
			b.WriteString("```\n\n")
		case types.RoleBody:
			fmt.Fprintf(b, "\n%s\n\n", m.spans(group[0].Spans))
		}
	}

	for _, tbl := range page.Tables {
		writeMarkdownTable(b, tbl)
	}
	for _, img := range page.Images {
		fmt.Fprintf(b, "\n![%s](%s)\n", img.Alt, dataURI(img))
	}
	if page.Render != nil {
		fmt.Fprintf(b, "\n![%s](%s)\n", page.Render.Alt, dataURI(*page.Render))
	}
	b.WriteString("\n")
}

// spans renders styled spans with Markdown emphasis. Math spans pass through
// unescaped; everything else gets its Markdown metacharacters escaped.
func (m *Markdown) spans(spans []types.StyledSpan) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if m.EquationRules != nil && m.EquationRules(s.Signal.Family) {
			b.WriteString(s.Text)
			continue
		}
		e := escapeMarkdown(s.Text)
		switch {
		case s.Signal.Bold && s.Signal.Italic:
			fmt.Fprintf(&b, "***%s***", e)
		case s.Signal.Bold:
			fmt.Fprintf(&b, "**%s**", e)
		case s.Signal.Italic:
			fmt.Fprintf(&b, "*%s*", e)
		default:
			b.WriteString(e)
		}
	}
	return b.String()
}

func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\*_`[]()#>", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func writeMarkdownTable(b *strings.Builder, tbl types.Table) {
	if len(tbl.Rows) == 0 {
		return
	}
	b.WriteString("\n")
	header := tbl.Rows[0]
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range tbl.Rows[1:] {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}
