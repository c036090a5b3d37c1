// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deckdown/pkg/types"
)

func classified(role types.Role, text string) types.ClassifiedLine {
	return types.ClassifiedLine{
		Text: text,
		Role: role,
		Spans: []types.StyledSpan{
			{Text: text, Signal: types.FontSignal{Family: "Arial", SizePt: 20}},
		},
	}
}

// sampleModel covers every role, a table, an extracted image, and a full-page
// render across two source documents.
func sampleModel() types.OutputModel {
	mathSig := types.FontSignal{Family: "Cambria Math", SizePt: 20}
	return types.OutputModel{
		Title: "Astrodynamics",
		Pages: []types.PageRecord{
			{
				SourceDoc: "week1.pdf",
				PageIndex: 0,
				Title:     "Orbital Mechanics",
				Lines: []types.ClassifiedLine{
					classified(types.RoleTitle, "Orbital Mechanics"),
					classified(types.RoleBullet, "Kepler's laws"),
					classified(types.RoleSubBullet, "ellipses, not circles"),
					{
						Text: "a = -GM/r²",
						Role: types.RoleEquation,
						Spans: []types.StyledSpan{
							{Text: "a = -GM/r²", Signal: mathSig},
						},
					},
					{
						Text: "v² = GM(2/r - 1/a)",
						Role: types.RoleEquation,
						Spans: []types.StyledSpan{
							{Text: "v² = GM(2/r - 1/a)", Signal: mathSig},
						},
					},
					classified(types.RoleBody, "derivation follows"),
				},
				Tables: []types.Table{{Rows: [][]string{
					{"Body", "Period"},
					{"Earth", "365d"},
				}}},
				Images: []types.ImageBlob{{Data: []byte{0xFF, 0xD8}, Ext: "jpeg", Alt: "Slide 1 Figure 1"}},
			},
			{
				SourceDoc: "week2.pdf",
				PageIndex: 0,
				Title:     "Propagator Core",
				Lines: []types.ClassifiedLine{
					classified(types.RoleTitle, "Propagator Core"),
					classified(types.RoleCode, "state = step(state, dt);"),
					classified(types.RoleCode, "t += dt;"),
				},
				Render: &types.ImageBlob{Data: []byte{0x89, 0x50}, Ext: "png", Alt: "Slide 1"},
			},
		},
		TOC: []types.TOCEntry{
			{Title: "Orbital Mechanics", Anchor: "orbital-mechanics", DocIndex: 0, PageIndex: 0},
			{Title: "Propagator Core", Anchor: "propagator-core", DocIndex: 1, PageIndex: 0},
		},
	}
}

func mathRules(family string) bool { return family == "Cambria Math" }

func TestFor(t *testing.T) {
	s, err := For(types.FormatHTML)
	require.NoError(t, err)
	assert.IsType(t, &HTML{}, s)

	s, err = For(types.FormatMarkdown)
	require.NoError(t, err)
	assert.IsType(t, &Markdown{}, s)

	_, err = For(types.OutputFormat("pdf"))
	assert.Error(t, err)
}

func TestDataURI(t *testing.T) {
	got := dataURI(types.ImageBlob{Data: []byte("abc"), Ext: "png"})
	assert.Equal(t, "data:image/png;base64,YWJj", got)
}

func TestMergeEquationRuns(t *testing.T) {
	lines := []types.ClassifiedLine{
		classified(types.RoleTitle, "t"),
		classified(types.RoleEquation, "e1"),
		classified(types.RoleEquation, "e2"),
		classified(types.RoleBody, "b"),
		classified(types.RoleCode, "c1"),
		classified(types.RoleCode, "c2"),
		classified(types.RoleCode, "c3"),
		classified(types.RoleEquation, "e3"),
	}

	groups := mergeEquationRuns(lines)
	require.Len(t, groups, 5)
	assert.Len(t, groups[0], 1)
	assert.Len(t, groups[1], 2)
	assert.Len(t, groups[2], 1)
	assert.Len(t, groups[3], 3)
	assert.Len(t, groups[4], 1)
}

func TestMergeEquationRuns_BulletsStaySeparate(t *testing.T) {
	lines := []types.ClassifiedLine{
		classified(types.RoleBullet, "a"),
		classified(types.RoleBullet, "b"),
	}
	groups := mergeEquationRuns(lines)
	require.Len(t, groups, 2)
}
