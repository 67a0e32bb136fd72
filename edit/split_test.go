// edit/split_test.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	gomath "math"
	"testing"

	"github.com/trkworks/trked/math"
)

func TestSplitStraight(t *testing.T) {
	tri := triangleLoop()
	out, err := Split(tri, 0, math.Point{40, 10})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("got %d sections", len(out))
	}
	if err := ValidateSections(out); err != nil {
		t.Fatalf("result invalid: %v", err)
	}

	if gomath.Abs(out[0].Length-40) > 1e-9 || gomath.Abs(out[1].Length-60) > 1e-9 {
		t.Errorf("split lengths: %v, %v", out[0].Length, out[1].Length)
	}
	if !pointsClose(out[0].End, math.Point{40, 0}) || !pointsClose(out[1].Start, math.Point{40, 0}) {
		t.Errorf("split point: %v / %v", out[0].End, out[1].Start)
	}
	if out[0].Next != 1 || out[1].Prev != 0 {
		t.Error("halves not linked to each other")
	}
	// Old sections 1 and 2 shifted to 2 and 3; loop stays closed.
	if !IsClosedLoop(out) {
		t.Error("loop opened by split")
	}
	if gomath.Abs(TotalLength(out)-TotalLength(tri)) > 1e-9 {
		t.Error("total length changed")
	}
}

func TestSplitTooCloseToEnd(t *testing.T) {
	tri := triangleLoop()
	if _, err := Split(tri, 0, math.Point{0.5, 0}); err != ErrSplitTooClose {
		t.Errorf("near start: got %v", err)
	}
	if _, err := Split(tri, 0, math.Point{99.9, 0}); err != ErrSplitTooClose {
		t.Errorf("near end: got %v", err)
	}
	if _, err := Split(tri, 7, math.Point{}); err != ErrBadIndex {
		t.Errorf("bad index: got %v", err)
	}
}

func TestSplitCurve(t *testing.T) {
	sections := []Section{quarterCircle()}
	// Split at the arc's midpoint, 45 degrees around.
	mid := math.Point{50 * gomath.Sqrt2 / 2, 50 - 50*gomath.Sqrt2/2}
	out, err := Split(sections, 0, mid)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d sections", len(out))
	}

	want := gomath.Pi * 50 / 4
	if gomath.Abs(out[0].Length-want) > want*0.01 || gomath.Abs(out[1].Length-want) > want*0.01 {
		t.Errorf("half lengths: %v, %v", out[0].Length, out[1].Length)
	}
	if r := math.Distance2(out[0].End, math.Point{0, 50}); gomath.Abs(r-50) > 1e-6 {
		t.Errorf("split point off circle: radius %v", r)
	}
	if !pointsClose(out[0].End, out[1].Start) {
		t.Error("halves do not meet")
	}
	// The shared tangent is continuous.
	if math.Dot(out[0].EndHeading, out[1].StartHeading) < 0.9999 {
		t.Errorf("tangent break: %v vs %v", out[0].EndHeading, out[1].StartHeading)
	}
}

func TestDelete(t *testing.T) {
	tri := triangleLoop()
	out, err := Delete(tri, 1)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d sections", len(out))
	}
	// Old section 2 is now section 1; references to the deleted section
	// dangle.
	if out[0].Next != None {
		t.Errorf("section 0 next: got %v", out[0].Next)
	}
	if out[1].Prev != None {
		t.Errorf("section 1 prev: got %v", out[1].Prev)
	}
	if out[0].Prev != 1 || out[1].Next != 0 {
		t.Error("surviving links not remapped")
	}
	if out[1].Start != tri[2].Start {
		t.Error("wrong section removed")
	}

	if _, err := Delete(tri, -1); err != ErrBadIndex {
		t.Errorf("bad index: got %v", err)
	}
}
