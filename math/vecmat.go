// math/vecmat.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

///////////////////////////////////////////////////////////////////////////
// point 2d

// Point is a 2D point or vector in track world units (1/500ns of an inch).
// Track coordinates reach a few times 10^7 units, so these are float64
// throughout; float32 loses whole units at that magnitude.
type Point [2]float64

// Various useful functions for arithmetic with 2D points/vectors.
// Names are brief in order to avoid clutter when they're used.

// a+b
func Add2(a, b Point) Point {
	return Point{a[0] + b[0], a[1] + b[1]}
}

// a-b
func Sub2(a, b Point) Point {
	return Point{a[0] - b[0], a[1] - b[1]}
}

// a*s
func Scale2(a Point, s float64) Point {
	return Point{s * a[0], s * a[1]}
}

// midpoint of a and b
func Mid2(a, b Point) Point {
	return Scale2(Add2(a, b), 0.5)
}

// Linearly interpolate x of the way between a and b. x==0 corresponds to
// a, x==1 corresponds to b, etc.
func Lerp2(x float64, a, b Point) Point {
	return Point{(1-x)*a[0] + x*b[0], (1-x)*a[1] + x*b[1]}
}

func Dot(a, b Point) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// z component of the 3D cross product of a and b lifted into the plane;
// positive when b is counterclockwise of a.
func Cross2(a, b Point) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Length of v
func Length2(v Point) float64 {
	return gomath.Hypot(v[0], v[1])
}

// Distance between two points
func Distance2(a, b Point) float64 {
	return Length2(Sub2(a, b))
}

// Normalizes the given vector; returns the zero vector if it is degenerate.
func Normalize2(a Point) Point {
	l := Length2(a)
	if l == 0 {
		return Point{}
	}
	return Scale2(a, 1/l)
}

// Perp2 returns v rotated 90 degrees counterclockwise.
func Perp2(v Point) Point {
	return Point{-v[1], v[0]}
}

// IsZero2 reports whether v is exactly the zero vector.
func IsZero2(v Point) bool {
	return v[0] == 0 && v[1] == 0
}

// Equivalent to acos(Dot(a, b)) for unit vectors, but clamped so slightly
// denormalized inputs don't NaN.
func AngleBetween(a, b Point) float64 {
	return gomath.Acos(Clamp(Dot(a, b), -1, 1))
}

// SignedAngle returns the angle from a to b in radians; positive is
// counterclockwise.
func SignedAngle(a, b Point) float64 {
	return gomath.Atan2(Cross2(a, b), Clamp(Dot(a, b), -1, 1))
}

// Atan2Vec returns the polar angle of v.
func Atan2Vec(v Point) float64 {
	return gomath.Atan2(v[1], v[0])
}

// UnitFromAngle returns the unit vector at polar angle theta.
func UnitFromAngle(theta float64) Point {
	return Point{gomath.Cos(theta), gomath.Sin(theta)}
}
