// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdeck

import (
	"encoding/base64"
	"regexp"

	"github.com/pdiddy/deckdown/internal/deck"
)

// The SVG probe works on MuPDF's per-page SVG export: vector drawings appear
// as path elements in the page body, glyph outlines live inside defs blocks,
// and embedded rasters appear as image elements with data URIs.

var (
	defsPattern  = regexp.MustCompile(`(?s)<defs\b.*?</defs>`)
	pathPattern  = regexp.MustCompile(`<path\b`)
	imagePattern = regexp.MustCompile(`<image\b[^>]*href="data:image/([a-zA-Z]+);base64,([A-Za-z0-9+/=\s]+)"`)
)

// countVectorObjects counts drawing paths outside glyph definitions. Glyph
// outlines are referenced through use elements, so stripping defs and
// ignoring uses leaves the page's actual vector drawings.
func countVectorObjects(svg string) int {
	body := defsPattern.ReplaceAllString(svg, "")
	return len(pathPattern.FindAllStringIndex(body, -1))
}

// extractImages recovers embedded rasters from the SVG's data URIs, in
// document order. Blobs that fail to decode are dropped rather than
// surfaced: a broken embedded image never blocks page extraction.
func extractImages(svg string) []deck.Image {
	var images []deck.Image
	for _, m := range imagePattern.FindAllStringSubmatch(svg, -1) {
		data, err := base64.StdEncoding.DecodeString(stripSpace(m[2]))
		if err != nil || len(data) == 0 {
			continue
		}
		images = append(images, deck.Image{Data: data, Ext: m[1]})
	}
	return images
}

func stripSpace(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\n', '\r', '\t':
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
