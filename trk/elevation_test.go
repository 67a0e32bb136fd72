// trk/elevation_test.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trk

import (
	gomath "math"
	"testing"
)

func TestFitBoundaryRecoversEndpoints(t *testing.T) {
	cases := []struct {
		a0, s0, a1, s1, l float64
	}{
		{0, 0, 0, 0, 1000},
		{100, 0.01, 250, -0.02, 5000},
		{-50, 0.05, -50, 0.05, 2500},
		{0, -0.1, 300, 0.1, 800},
	}
	for _, c := range cases {
		cu := FitBoundary(c.a0, c.s0, c.a1, c.s1, c.l)
		if got := cu.Evaluate(0); gomath.Abs(got-c.a0) > 1e-6 {
			t.Errorf("%+v: altitude at 0: got %v, expected %v", c, got, c.a0)
		}
		if got := cu.EndAltitude(); gomath.Abs(got-c.a1) > 1e-6 {
			t.Errorf("%+v: altitude at 1: got %v, expected %v", c, got, c.a1)
		}
		if got := cu.Slope(0); gomath.Abs(got-c.s0) > 1e-9 {
			t.Errorf("%+v: slope at 0: got %v, expected %v", c, got, c.s0)
		}
		if got := cu.EndSlope(); gomath.Abs(got-c.s1) > 1e-9 {
			t.Errorf("%+v: slope at 1: got %v, expected %v", c, got, c.s1)
		}
	}
}

func TestFitBoundaryZeroLength(t *testing.T) {
	cu := FitBoundary(42, 0.5, 99, -0.5, 0)
	if cu.G4 != 42 || cu.G1 != 0 || cu.G2 != 0 || cu.G3 != 0 {
		t.Errorf("zero length fit: got %+v", cu)
	}
	if cu.Slope(0.5) != 0 {
		t.Errorf("zero length slope: got %v", cu.Slope(0.5))
	}
}

func TestCubicRowScaling(t *testing.T) {
	cu := FitBoundary(10, 0.02, 80, -0.03, 4000)
	row := cu.Row()
	if row.G5 != 3*row.G1 {
		t.Errorf("G5: got %d, expected %d", row.G5, 3*row.G1)
	}
	if row.G6 != 2*row.G2 {
		t.Errorf("G6: got %d, expected %d", row.G6, 2*row.G2)
	}
	back := row.Cubic(4000)
	if gomath.Abs(back.EndAltitude()-cu.EndAltitude()) > 1 {
		t.Errorf("row round trip end altitude: got %v, expected %v", back.EndAltitude(), cu.EndAltitude())
	}
}

func TestArcLength(t *testing.T) {
	// A flat profile contributes nothing beyond the planar length.
	flat := FitBoundary(500, 0, 500, 0, 3000)
	if got := flat.ArcLength(0); gomath.Abs(got-3000) > 1e-6 {
		t.Errorf("flat arc length: got %v, expected 3000", got)
	}

	// A constant 3-4-5 slope stretches the length by exactly 5/4.
	ramp := FitBoundary(0, 0.75, 3000, 0.75, 4000)
	if got := ramp.ArcLength(0); gomath.Abs(got-5000) > 1e-3 {
		t.Errorf("ramp arc length: got %v, expected 5000", got)
	}

	if got := (Cubic{}).ArcLength(0); got != 0 {
		t.Errorf("zero cubic arc length: got %v", got)
	}
}
