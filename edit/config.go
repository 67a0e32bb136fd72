// edit/config.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

// Config carries editor tuning knobs. The zero value is usable.
type Config struct {
	// DebugCurveRender enables verbose logging of curve solver attempts.
	DebugCurveRender bool

	// HeadingToleranceDeg is the acceptance threshold, in degrees, for
	// tangent continuity when solving curve to straight connections.
	// Zero selects the default.
	HeadingToleranceDeg float64

	// MinStraightLength rejects connection solutions that would shrink a
	// straight below this world length. Zero selects the default.
	MinStraightLength float64

	// CurveDragTolerance is the slack, in world units, the curve drag
	// solver may spend before radius changes are penalized. Zero selects
	// the default.
	CurveDragTolerance float64
}

const (
	defaultHeadingTolDeg     = 1e-4
	defaultMinStraightLength = 1.0
)

func (c Config) headingTolDeg() float64 {
	if c.HeadingToleranceDeg > 0 {
		return c.HeadingToleranceDeg
	}
	return defaultHeadingTolDeg
}

func (c Config) minStraightLength() float64 {
	if c.MinStraightLength > 0 {
		return c.MinStraightLength
	}
	return defaultMinStraightLength
}

func (c Config) curveDragTolerance() float64 {
	if c.CurveDragTolerance > 0 {
		return c.CurveDragTolerance
	}
	return CurveSolveTolerance
}
