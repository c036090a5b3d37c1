// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/deckdown/pkg/types"
)

func linesWithRoles(rr ...types.Role) []types.ClassifiedLine {
	out := make([]types.ClassifiedLine, len(rr))
	for i, r := range rr {
		out[i] = types.ClassifiedLine{Text: "x", Role: r}
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		policy     types.RenderPolicy
		lines      []types.ClassifiedLine
		vectors    int
		wantMode   types.RenderMode
		wantReason types.RenderReason
	}{
		{
			name:       "always forces full page on a text-only page",
			policy:     types.RenderPolicyAlways,
			lines:      linesWithRoles(types.RoleTitle, types.RoleBullet),
			wantMode:   types.RenderFullPage,
			wantReason: types.ReasonForcedByPolicy,
		},
		{
			name:       "never skips even with heavy vector content",
			policy:     types.RenderPolicyNever,
			vectors:    100,
			wantMode:   types.RenderNone,
			wantReason: types.ReasonForcedSkip,
		},
		{
			name:       "auto renders above the vector threshold",
			policy:     types.RenderPolicyAuto,
			lines:      linesWithRoles(types.RoleTitle),
			vectors:    5,
			wantMode:   types.RenderFullPage,
			wantReason: types.ReasonHasVectorGraphic,
		},
		{
			name:       "auto keeps text at the vector threshold",
			policy:     types.RenderPolicyAuto,
			lines:      linesWithRoles(types.RoleTitle),
			vectors:    4,
			wantMode:   types.RenderNone,
			wantReason: "",
		},
		{
			name:   "auto renders at the equation density threshold",
			policy: types.RenderPolicyAuto,
			lines: linesWithRoles(
				types.RoleTitle, types.RoleEquation, types.RoleEquation,
				types.RoleBody, types.RoleBody,
			),
			wantMode:   types.RenderFullPage,
			wantReason: types.ReasonHasDenseEquations,
		},
		{
			name:   "auto keeps text below the equation density threshold",
			policy: types.RenderPolicyAuto,
			lines: linesWithRoles(
				types.RoleTitle, types.RoleEquation,
				types.RoleBody, types.RoleBody, types.RoleBody,
			),
			wantMode:   types.RenderNone,
			wantReason: "",
		},
		{
			name:       "vector graphics win over dense math",
			policy:     types.RenderPolicyAuto,
			lines:      linesWithRoles(types.RoleEquation, types.RoleEquation),
			vectors:    9,
			wantMode:   types.RenderFullPage,
			wantReason: types.ReasonHasVectorGraphic,
		},
		{
			name:       "empty page under auto",
			policy:     types.RenderPolicyAuto,
			wantMode:   types.RenderNone,
			wantReason: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(types.RenderConfig{Policy: tt.policy})
			d := e.Evaluate(2, tt.lines, tt.vectors)
			assert.Equal(t, 2, d.PageIndex)
			assert.Equal(t, tt.wantMode, d.Mode)
			assert.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

// Auto decisions must never carry a forced reason, whatever the page holds.
func TestEvaluate_AutoNeverForced(t *testing.T) {
	e := New(types.RenderConfig{Policy: types.RenderPolicyAuto})
	for vectors := 0; vectors <= 20; vectors += 5 {
		d := e.Evaluate(0, linesWithRoles(types.RoleEquation), vectors)
		assert.NotEqual(t, types.ReasonForcedByPolicy, d.Reason)
		assert.NotEqual(t, types.ReasonForcedSkip, d.Reason)
	}
}

func TestNew_Defaults(t *testing.T) {
	e := New(types.RenderConfig{})
	cfg := e.Config()
	assert.Equal(t, types.RenderPolicyAuto, cfg.Policy)
	assert.Equal(t, 0.4, cfg.EquationDensity)
	assert.Equal(t, 4, cfg.VectorObjectThreshold)
	assert.Equal(t, 120.0, cfg.DPI)
}

func TestNew_CustomThresholds(t *testing.T) {
	e := New(types.RenderConfig{Policy: types.RenderPolicyAuto, VectorObjectThreshold: 10})
	d := e.Evaluate(0, nil, 8)
	assert.Equal(t, types.RenderNone, d.Mode)
}
