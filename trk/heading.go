// trk/heading.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trk

import gomath "math"

// Headings are stored as fixed-point angles: an int32 whose full range spans
// -pi..pi, i.e. heading = radians/pi * 2^31, with wraparound at +-2^31.

func HeadingToRadians(h int32) float64 {
	return float64(h) / (1 << 31) * gomath.Pi
}

func RadiansToHeading(r float64) int32 {
	h := int64(gomath.Round(r / gomath.Pi * (1 << 31)))
	// Wrap into int32 range; +2^31 maps to -2^31.
	h = (h+(1<<31))&0xFFFFFFFF - (1 << 31)
	return int32(h)
}

// HalfDeltaHeading returns (to-from)/2 with the difference wrapped across
// the +-2^31 discontinuity, so the result always fits in +-2^30. Curve
// records store this half-delta. Odd differences round to nearest, ties to
// even.
func HalfDeltaHeading(from, to int32) int32 {
	d := int64(to) - int64(from)
	if d >= 1<<31 {
		d -= 1 << 32
	}
	if d < -(1 << 31) {
		d += 1 << 32
	}
	h := d >> 1
	if d&1 != 0 && h&1 != 0 {
		h++
	}
	return int32(h)
}
