// edit/solver_test.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	gomath "math"
	"testing"

	"github.com/trkworks/trked/math"
)

func TestSolveCurveDragPreservesRadius(t *testing.T) {
	s := quarterCircle()
	// Drag the end along the same circle; the fixed start heading admits an
	// exact solution with the original radius.
	solved := SolveCurveDrag(&s, s.Start, math.Point{0, 100}, CurveSolveTolerance)
	if solved == nil {
		t.Fatal("no solution")
	}
	if gomath.Abs(gomath.Abs(solved.Arc.Radius)-50) > 1e-6 {
		t.Errorf("radius: got %v, expected 50", solved.Arc.Radius)
	}
	if math.Distance2(solved.Arc.Center, math.Point{0, 50}) > 1e-6 {
		t.Errorf("center: got %v", solved.Arc.Center)
	}
	// The start heading survives the drag.
	if math.Dot(solved.StartHeading, math.Point{1, 0}) < 0.9999 {
		t.Errorf("start heading: got %v", solved.StartHeading)
	}
}

func TestSolveCurveDragFallback(t *testing.T) {
	// No headings at all forces the chord-normal candidate path.
	s := Section{
		Kind:  Curve,
		Prev:  None,
		Next:  None,
		Start: math.Point{0, 0},
		End:   math.Point{50, 50},
		Arc:   &Arc{Center: math.Point{0, 50}, Radius: 50},
	}
	solved := SolveCurveDrag(&s, s.Start, math.Point{60, 40}, CurveSolveTolerance)
	if solved == nil {
		t.Fatal("no solution")
	}
	if solved.Arc == nil || solved.Arc.Radius == 0 {
		t.Fatal("candidate lost its arc")
	}
	// Endpoints land where requested.
	if solved.Start != s.Start || solved.End != (math.Point{60, 40}) {
		t.Errorf("endpoints: %v -> %v", solved.Start, solved.End)
	}
	// Both endpoints sit on the solved circle.
	r1 := math.Distance2(solved.Start, solved.Arc.Center)
	r2 := math.Distance2(solved.End, solved.Arc.Center)
	if gomath.Abs(r1-r2) > 1e-6 {
		t.Errorf("endpoints off circle: %v vs %v", r1, r2)
	}
}

func TestSolveCurveDragDegenerate(t *testing.T) {
	s := quarterCircle()
	if solved := SolveCurveDrag(&s, math.Point{5, 5}, math.Point{5, 5}, 1); solved != nil {
		t.Error("coincident endpoints produced a solution")
	}
}

func TestSolveCurveWithFixedHeadingExported(t *testing.T) {
	s := quarterCircle()
	solved := SolveCurveWithFixedHeading(&s, s.Start, math.Point{50, 100}, StartNode)
	if solved == nil {
		t.Fatal("no solution")
	}
	// The fixed start tangent means the center stays on the start normal.
	if gomath.Abs(solved.Arc.Center[0]) > 1e-6 {
		t.Errorf("center not on start normal: %v", solved.Arc.Center)
	}
	if d := math.Distance2(solved.Start, solved.Arc.Center); gomath.Abs(d-solved.Arc.Radius) > 1e-6 {
		t.Errorf("start off circle: %v vs %v", d, solved.Arc.Radius)
	}
	if d := math.Distance2(solved.End, solved.Arc.Center); gomath.Abs(d-solved.Arc.Radius) > 1e-6 {
		t.Errorf("end off circle: %v vs %v", d, solved.Arc.Radius)
	}
}

func TestUpdateStraightEndpoints(t *testing.T) {
	s := Section{
		Kind:  Straight,
		Prev:  None,
		Next:  None,
		Start: math.Point{0, 0},
		End:   math.Point{10, 0},
	}
	moved := updateStraightEndpoints(&s, math.Point{0, 0}, math.Point{0, 30})
	if moved == nil {
		t.Fatal("no result")
	}
	if moved.Length != 30 {
		t.Errorf("length: got %v", moved.Length)
	}
	if math.Dot(moved.StartHeading, math.Point{0, 1}) < 0.9999 {
		t.Errorf("heading: got %v", moved.StartHeading)
	}
	pl := moved.Polyline
	if len(pl) < 2 || pl[0] != moved.Start || pl[len(pl)-1] != moved.End {
		t.Errorf("polyline not rebuilt around the new endpoints: %v", pl)
	}
}

func TestSolveCurveDragRebuildsPolyline(t *testing.T) {
	s := quarterCircle()
	solved := SolveCurveDrag(&s, s.Start, math.Point{0, 100}, 1)
	if solved == nil {
		t.Fatal("no solution")
	}
	pl := solved.Polyline
	if len(pl) < 2 || pl[0] != solved.Start || pl[len(pl)-1] != solved.End {
		t.Errorf("polyline not rebuilt around the new endpoints: %v", pl)
	}
	if solved.Length <= 0 {
		t.Errorf("length: got %v, expected > 0", solved.Length)
	}
}
