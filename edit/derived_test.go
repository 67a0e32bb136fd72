// edit/derived_test.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	gomath "math"
	"testing"

	"github.com/trkworks/trked/math"
	"github.com/trkworks/trked/sg"
)

func TestBuildSections(t *testing.T) {
	c, s := sg.PackCosSin(0)
	cn, sn := sg.PackCosSin(gomath.Pi / 2)
	src := &sg.File{
		LaneDLAT: []int32{-6000, 6000},
		Sections: []sg.Section{
			{
				Kind: sg.Straight, Next: 1, Prev: 1,
				StartX: 0, StartY: 0, EndX: 50000, EndY: 0,
				SangCos: c, SangSin: s, EangCos: c, EangSin: s,
			},
			{
				Kind: sg.Curve, Next: 0, Prev: 0,
				StartX: 50000, StartY: 0, EndX: 60000, EndY: 10000,
				CenterX: 50000, CenterY: 10000, Radius: 10000,
				SangCos: c, SangSin: s, EangCos: cn, EangSin: sn,
			},
		},
	}

	sections := BuildSections(src)
	if len(sections) != 2 {
		t.Fatalf("got %d sections", len(sections))
	}
	if sections[0].Kind != Straight || sections[1].Kind != Curve {
		t.Error("kinds not carried over")
	}
	if sections[1].Arc == nil || sections[1].Arc.Center != (math.Point{50000, 10000}) {
		t.Errorf("arc: %+v", sections[1].Arc)
	}
	if sections[0].Start != (math.Point{0, 0}) || sections[0].End != (math.Point{50000, 0}) {
		t.Error("endpoints not carried over")
	}
	if math.Dot(sections[1].StartHeading, math.Point{1, 0}) < 0.9999 {
		t.Errorf("curve start heading: %v", sections[1].StartHeading)
	}
	if len(sections[1].Polyline) < 9 {
		t.Errorf("curve not tessellated: %d points", len(sections[1].Polyline))
	}
	if sections[1].StartDLONG != sections[0].Length {
		t.Error("DLONGs not accumulated")
	}
}

func TestBuildDerived(t *testing.T) {
	tri := triangleLoop()
	d := BuildDerived(tri)

	if gomath.Abs(d.TrackLength-TotalLength(tri)) > 1e-9 {
		t.Errorf("track length: got %v", d.TrackLength)
	}
	if d.BoundsMin != (math.Point{0, 0}) || d.BoundsMax != (math.Point{100, 80}) {
		t.Errorf("bounds: %v .. %v", d.BoundsMin, d.BoundsMax)
	}
	// Shared endpoints are deduplicated: three 2-point polylines flatten to
	// four points.
	if len(d.Centerline) != 4 {
		t.Errorf("centerline points: got %d", len(d.Centerline))
	}
}

func TestBoundaryPostSpacing(t *testing.T) {
	// A single long straight gets evenly spaced posts on both sides.
	sections := []Section{UpdateGeometry(Section{
		Kind: Straight, Prev: None, Next: None,
		Start: math.Point{0, 0}, End: math.Point{30000, 0},
	})}
	d := BuildDerived(sections)

	want := 30000 / postSpacing
	if len(d.LeftPosts) != want || len(d.RightPosts) != want {
		t.Fatalf("post counts: %d / %d, expected %d", len(d.LeftPosts), len(d.RightPosts), want)
	}
	for i, p := range d.LeftPosts {
		if gomath.Abs(p.Base[0]-float64(i*postSpacing)) > 1e-6 {
			t.Errorf("post %d at x=%v", i, p.Base[0])
		}
		// Left of +x travel is +y.
		if p.Tip[1] <= p.Base[1] {
			t.Errorf("left post %d points the wrong way", i)
		}
		if gomath.Abs(math.Distance2(p.Base, p.Tip)-postLength) > 1e-6 {
			t.Errorf("post %d length %v", i, math.Distance2(p.Base, p.Tip))
		}
	}
	if d.RightPosts[0].Tip[1] >= 0 {
		t.Error("right post points the wrong way")
	}
}

func TestTessellatorCache(t *testing.T) {
	ts := NewTessellator()
	s := quarterCircle()

	a := ts.Polyline(&s)
	b := ts.Polyline(&s)
	if &a[0] != &b[0] {
		t.Error("identical geometry retessellated")
	}

	moved := s.clone()
	moved.End = math.Point{50, 60}
	c := ts.Polyline(&moved)
	if &a[0] == &c[0] {
		t.Error("changed geometry served from cache")
	}
}
