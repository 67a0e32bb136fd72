// trk/elevation.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trk

import gomath "math"

// GradeScale converts a dimensionless slope (altitude units per DLONG unit)
// to the fixed-point grade stored in absolute-layout lane records.
const GradeScale = 8192

// Cubic is an altitude profile over one section, evaluated on the
// normalized parameter s in [0,1]: alt(s) = G1*s^3 + G2*s^2 + G3*s + G4.
// L is the section length in DLONG units.
type Cubic struct {
	G1, G2, G3, G4 float64
	L              float64
}

// Evaluate returns the altitude at normalized position s.
func (c Cubic) Evaluate(s float64) float64 {
	return ((c.G1*s+c.G2)*s+c.G3)*s + c.G4
}

// Slope returns d(alt)/d(dlong) at normalized position s.
func (c Cubic) Slope(s float64) float64 {
	if c.L == 0 {
		return 0
	}
	return ((3*c.G1*s+2*c.G2)*s + c.G3) / c.L
}

// FitBoundary builds the unique cubic over a section of length l that
// matches altitude a0 and slope s0 at the start and a1, s1 at the end.
func FitBoundary(a0, s0, a1, s1, l float64) Cubic {
	if l == 0 {
		return Cubic{G4: a0}
	}
	return Cubic{
		G1: (2*a0/l + s0 + s1 - 2*a1/l) * l,
		G2: (3*a1/l - 3*a0/l - 2*s0 - s1) * l,
		G3: s0 * l,
		G4: a0,
		L:  l,
	}
}

// EndAltitude and EndSlope evaluate the cubic at s=1; they recover the
// boundary values a fit was built from, up to rounding.
func (c Cubic) EndAltitude() float64 { return c.Evaluate(1) }
func (c Cubic) EndSlope() float64    { return c.Slope(1) }

// Row rounds the cubic to a stored elevation row. The derivative words are
// kept as the fixed multiples 3*G1 and 2*G2 so a reader can evaluate the
// slope polynomial without rescaling. Position words are left zero for the
// caller to fill.
func (c Cubic) Row() ElevationRow {
	r := ElevationRow{
		G1: int32(gomath.Round(c.G1)),
		G2: int32(gomath.Round(c.G2)),
		G3: int32(gomath.Round(c.G3)),
		G4: int32(gomath.Round(c.G4)),
	}
	r.G5 = 3 * r.G1
	r.G6 = 2 * r.G2
	return r
}

// ArcLength approximates the length of the altitude profile over the full
// section, accounting for climb. The cubic is sampled as a polyline of n
// segments over dlong in [0,L]; with a zero profile this degenerates to L.
func (c Cubic) ArcLength(n int) float64 {
	if n <= 0 {
		n = 10000
	}
	if c.L == 0 {
		return 0
	}
	step := c.L / float64(n)
	total := 0.0
	xPrev, yPrev := 0.0, c.Evaluate(0)
	for i := 1; i <= n; i++ {
		x := float64(i) * step
		y := c.Evaluate(x / c.L)
		total += gomath.Hypot(x-xPrev, y-yPrev)
		xPrev, yPrev = x, y
	}
	return total
}

// Cubic reconstructs the altitude profile stored in an elevation row for a
// section of length l.
func (r ElevationRow) Cubic(l float64) Cubic {
	return Cubic{
		G1: float64(r.G1),
		G2: float64(r.G2),
		G3: float64(r.G3),
		G4: float64(r.G4),
		L:  l,
	}
}
