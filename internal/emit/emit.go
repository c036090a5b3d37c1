// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package emit serializes the merged output model into a single
// self-contained artifact: HTML or Markdown with every image inlined as a
// base64 data URI.
package emit

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/pdiddy/deckdown/pkg/types"
)

// Serializer writes an output model as one artifact.
type Serializer interface {
	// Write serializes the model to w.
	Write(w io.Writer, model types.OutputModel) error
}

// For returns the serializer for a format.
func For(format types.OutputFormat) (Serializer, error) {
	switch format {
	case types.FormatHTML:
		return &HTML{}, nil
	case types.FormatMarkdown:
		return &Markdown{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// dataURI inlines an image blob as a data: URI.
func dataURI(blob types.ImageBlob) string {
	return fmt.Sprintf("data:image/%s;base64,%s",
		blob.Ext, base64.StdEncoding.EncodeToString(blob.Data))
}

// mergeEquationRuns groups consecutive equation lines so they serialize as
// one display block, matching how producers split a single formula across
// lines.
func mergeEquationRuns(lines []types.ClassifiedLine) [][]types.ClassifiedLine {
	var groups [][]types.ClassifiedLine
	i := 0
	for i < len(lines) {
		j := i + 1
		if lines[i].Role == types.RoleEquation || lines[i].Role == types.RoleCode {
			for j < len(lines) && lines[j].Role == lines[i].Role {
				j++
			}
		}
		groups = append(groups, lines[i:j])
		i = j
	}
	return groups
}
