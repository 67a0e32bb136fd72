// math/math_test.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"testing"
)

func TestWrapAngle(t *testing.T) {
	cases := []struct {
		theta, want float64
	}{
		{0, 0},
		{gomath.Pi, gomath.Pi},
		{-gomath.Pi, gomath.Pi},
		{3 * gomath.Pi / 2, -gomath.Pi / 2},
		{-3 * gomath.Pi / 2, gomath.Pi / 2},
		{4 * gomath.Pi, 0},
	}
	for _, c := range cases {
		if got := WrapAngle(c.theta); gomath.Abs(got-c.want) > 1e-12 {
			t.Errorf("WrapAngle(%v): got %v, expected %v", c.theta, got, c.want)
		}
	}
}

func TestDirectedAngle(t *testing.T) {
	cases := []struct {
		start, end, orient, want float64
	}{
		{0, gomath.Pi / 2, 1, gomath.Pi / 2},
		{0, gomath.Pi / 2, -1, -3 * gomath.Pi / 2},
		{gomath.Pi / 2, 0, 1, 3 * gomath.Pi / 2},
		{gomath.Pi / 2, 0, -1, -gomath.Pi / 2},
	}
	for _, c := range cases {
		if got := DirectedAngle(c.start, c.end, c.orient); gomath.Abs(got-c.want) > 1e-12 {
			t.Errorf("DirectedAngle(%v, %v, %v): got %v, expected %v", c.start, c.end, c.orient, got, c.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if c := Clamp(5, 1, 3); c != 3 {
		t.Errorf("Clamp high: got %d, expected 3", c)
	}
	if c := Clamp(-5, 1, 3); c != 1 {
		t.Errorf("Clamp low: got %d, expected 1", c)
	}
	if c := Clamp(2.5, 1.0, 3.0); c != 2.5 {
		t.Errorf("Clamp mid: got %f, expected 2.5", c)
	}
}
