// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render decides, per page, whether structured text reconstruction
// is trustworthy or the page must be kept as a full-page raster. Vector
// diagrams and dense math are the two failure modes of text reconstruction:
// the first goes missing, the second comes out garbled.
package render

import (
	"github.com/pdiddy/deckdown/pkg/types"
)

// Evaluator applies one render policy with its thresholds.
type Evaluator struct {
	cfg types.RenderConfig
}

// New returns an evaluator for the given config. Zero thresholds fall back
// to defaults; an empty policy means auto.
func New(cfg types.RenderConfig) *Evaluator {
	def := types.DefaultConfig().Render
	if cfg.Policy == "" {
		cfg.Policy = def.Policy
	}
	if cfg.EquationDensity <= 0 {
		cfg.EquationDensity = def.EquationDensity
	}
	if cfg.VectorObjectThreshold <= 0 {
		cfg.VectorObjectThreshold = def.VectorObjectThreshold
	}
	if cfg.DPI <= 0 {
		cfg.DPI = def.DPI
	}
	return &Evaluator{cfg: cfg}
}

// Config returns the effective configuration after defaulting.
func (e *Evaluator) Config() types.RenderConfig { return e.cfg }

// Evaluate produces the page's render decision. vectorObjects is the page's
// count of vector drawing objects not extractable as standalone rasters;
// zero means none or no graphics metadata, which is treated as none.
func (e *Evaluator) Evaluate(pageIndex int, lines []types.ClassifiedLine, vectorObjects int) types.RenderDecision {
	d := types.RenderDecision{PageIndex: pageIndex, Mode: types.RenderNone}

	switch e.cfg.Policy {
	case types.RenderPolicyAlways:
		d.Mode = types.RenderFullPage
		d.Reason = types.ReasonForcedByPolicy
		return d
	case types.RenderPolicyNever:
		d.Reason = types.ReasonForcedSkip
		return d
	}

	if vectorObjects > e.cfg.VectorObjectThreshold {
		d.Mode = types.RenderFullPage
		d.Reason = types.ReasonHasVectorGraphic
		return d
	}
	if equationDensity(lines) >= e.cfg.EquationDensity {
		d.Mode = types.RenderFullPage
		d.Reason = types.ReasonHasDenseEquations
		return d
	}
	return d
}

// equationDensity is the fraction of lines classified as equations. An empty
// page has density zero.
func equationDensity(lines []types.ClassifiedLine) float64 {
	if len(lines) == 0 {
		return 0
	}
	n := 0
	for _, l := range lines {
		if l.Role == types.RoleEquation {
			n++
		}
	}
	return float64(n) / float64(len(lines))
}
