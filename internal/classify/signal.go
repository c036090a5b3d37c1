// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify turns one page's raw text runs into role-tagged lines.
// It has two stages: the signal extractor normalizes producer font metadata
// into comparable FontSignals, and the classifier maps signal-tagged lines
// to structural roles using per-page size ranking and pattern rules.
package classify

import (
	"strings"
	"unicode"

	"github.com/pdiddy/deckdown/internal/deck"
	"github.com/pdiddy/deckdown/pkg/types"
)

// unknownFamily marks runs whose producer omitted font metadata.
const unknownFamily = "unknown"

// defaultSizePt is the fallback size for pages with no sized text at all.
const defaultSizePt = 12

// glyph classes recognized at line start. Dashes mark sub-bullets on most
// slide templates, discs mark top-level bullets.
const (
	bulletGlyphs = "•‣●○▪■"
	dashGlyphs   = "–—‒"
)

// Glyph is the leading list marker found on a line, if any.
type Glyph int

const (
	GlyphNone Glyph = iota
	GlyphBullet
	GlyphDash
)

// Line is a signal-tagged line ready for classification.
type Line struct {
	// Text is the line text with the leading list glyph stripped.
	Text string

	// Spans are the styled fragments, one per contiguous run of identical
	// family/size/style, glyph stripped from the first.
	Spans []types.StyledSpan

	// Signal is the dominant signal: the largest span's, first occurrence
	// winning ties.
	Signal types.FontSignal

	// Glyph is the leading list marker class.
	Glyph Glyph

	// Hint is carried through from the backend.
	Hint deck.LineHint
}

// ExtractLines normalizes one page's raw lines into signal-tagged lines.
// Runs with missing metadata get the unknown family and the page's most
// frequent size, so downstream size ranking always terminates. Page-number
// lines (small, digit-only, in the bottom fifth of the page) are dropped.
// Never fails; an empty page yields an empty slice.
func ExtractLines(p deck.Page) []Line {
	fallback := frequentSize(p)
	lines := make([]Line, 0, len(p.Lines))
	for _, raw := range p.Lines {
		l, ok := extractLine(raw, fallback)
		if !ok {
			continue
		}
		if isPageNumber(l, raw, p.Height) {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// frequentSize returns the page's most frequent rounded size weighted by
// character count, or defaultSizePt when the page has no sized text.
func frequentSize(p deck.Page) float64 {
	counts := map[int]int{}
	for _, l := range p.Lines {
		for _, r := range l.Runs {
			txt := strings.TrimSpace(r.Text)
			if txt == "" || r.SizePt <= 0 {
				continue
			}
			counts[int(r.SizePt+0.5)] += len([]rune(txt))
		}
	}
	best, bestN := 0, 0
	for sz, n := range counts {
		if n > bestN || (n == bestN && sz > best) {
			best, bestN = sz, n
		}
	}
	if best == 0 {
		return defaultSizePt
	}
	return float64(best)
}

func extractLine(raw deck.Line, fallback float64) (Line, bool) {
	var spans []types.StyledSpan
	for _, run := range raw.Runs {
		if run.Text == "" {
			continue
		}
		sig := types.FontSignal{
			Family: run.Family,
			SizePt: run.SizePt,
			Bold:   run.Bold || strings.Contains(run.Family, "Bold"),
			Italic: run.Italic || strings.Contains(run.Family, "Italic"),
		}
		if sig.Family == "" {
			sig.Family = unknownFamily
		}
		if sig.SizePt <= 0 {
			sig.SizePt = fallback
		}
		if n := len(spans); n > 0 && spans[n-1].Signal == sig {
			spans[n-1].Text += run.Text
			continue
		}
		spans = append(spans, types.StyledSpan{Text: run.Text, Signal: sig})
	}

	l := Line{Spans: spans, Hint: raw.Hint}
	l.Glyph, l.Spans = stripGlyph(spans)
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	l.Text = strings.TrimSpace(b.String())
	if l.Text == "" {
		return Line{}, false
	}
	l.Signal = dominantSignal(l.Spans)
	return l, true
}

// dominantSignal picks the largest span's signal, first occurrence winning
// ties.
func dominantSignal(spans []types.StyledSpan) types.FontSignal {
	var sig types.FontSignal
	for _, s := range spans {
		if s.Signal.SizePt > sig.SizePt {
			sig = s.Signal
		}
	}
	return sig
}

// stripGlyph removes a leading list marker from the span sequence and
// reports its class.
func stripGlyph(spans []types.StyledSpan) (Glyph, []types.StyledSpan) {
	for i, s := range spans {
		t := strings.TrimLeft(s.Text, " \t")
		if t == "" {
			continue
		}
		g := GlyphNone
		r := []rune(t)[0]
		switch {
		case strings.ContainsRune(bulletGlyphs, r):
			g = GlyphBullet
		case strings.ContainsRune(dashGlyphs, r):
			g = GlyphDash
		default:
			return GlyphNone, spans
		}
		rest := strings.TrimLeft(string([]rune(t)[1:]), " \t")
		out := make([]types.StyledSpan, 0, len(spans)-i)
		if rest != "" {
			out = append(out, types.StyledSpan{Text: rest, Signal: s.Signal})
		}
		out = append(out, spans[i+1:]...)
		if len(out) == 0 {
			// A bare glyph line keeps its spans so the text survives.
			return GlyphNone, spans
		}
		return g, out
	}
	return GlyphNone, spans
}

// isPageNumber reports whether a line is a page-number artifact: digit-only,
// small, and in the bottom fifth of the page. Requires page geometry; lines
// without it are kept.
func isPageNumber(l Line, raw deck.Line, pageHeight float64) bool {
	if pageHeight <= 0 || raw.Y < pageHeight*0.80 {
		return false
	}
	if l.Signal.SizePt >= 15 {
		return false
	}
	for _, r := range l.Text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return l.Text != ""
}
