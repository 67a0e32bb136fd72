// trk/surface_test.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trk

import "testing"

func TestSurfaceGroundCodes(t *testing.T) {
	for s := Grass; s <= Paint; s++ {
		code, ok := SurfaceToGround(s)
		if !ok {
			t.Fatalf("%v: no ground code", s)
		}
		if back := GroundToSurface(code); back != s {
			t.Errorf("%v: code %d mapped back to %v", s, code, back)
		}
	}
}

func TestGroundToSurfaceClamps(t *testing.T) {
	cases := []struct {
		code int32
		want Surface
	}{
		{-10, Grass},
		{0, Grass},
		{6, Grass},
		{14, DryGrass},
		{55, Paint},
		{200, Paint},
	}
	for _, c := range cases {
		if got := GroundToSurface(c.code); got != c.want {
			t.Errorf("GroundToSurface(%d): got %v, expected %v", c.code, got, c.want)
		}
	}
}

func TestWallStripTypes(t *testing.T) {
	cases := []struct {
		wall   int32
		t1, t2 int32
	}{
		{4, 7, 0}, // wall
		{6, 7, 2}, // wall + fence
		{0, 8, 0}, // armco
		{2, 8, 2}, // armco + fence
	}
	for _, c := range cases {
		t1, t2 := WallToStripTypes(c.wall)
		if t1 != c.t1 || t2 != c.t2 {
			t.Errorf("WallToStripTypes(%d): got (%d,%d), expected (%d,%d)", c.wall, t1, t2, c.t1, c.t2)
		}
		if back := StripTypesToWall(t1, t2); back != c.wall {
			t.Errorf("StripTypesToWall(%d,%d): got %d, expected %d", t1, t2, back, c.wall)
		}
		if !IsBoundaryStripType(t1) {
			t.Errorf("IsBoundaryStripType(%d): expected true", t1)
		}
	}
	if IsBoundaryStripType(4) {
		t.Error("ground strip type reported as boundary")
	}
}
