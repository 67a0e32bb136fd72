// math/math.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[T constraints.Integer | constraints.Float](x T) T {
	return x * x
}

// WrapAngle wraps theta to (-pi, pi].
func WrapAngle(theta float64) float64 {
	for theta <= -gomath.Pi {
		theta += 2 * gomath.Pi
	}
	for theta > gomath.Pi {
		theta -= 2 * gomath.Pi
	}
	return theta
}

// DirectedAngle returns the angular span from start to end in the direction
// given by orientation (positive = counterclockwise). The result is always
// nonzero and has the sign of orientation.
func DirectedAngle(start, end, orientation float64) float64 {
	angle := end - start
	if orientation > 0 {
		for angle <= 0 {
			angle += 2 * gomath.Pi
		}
	} else {
		for angle >= 0 {
			angle -= 2 * gomath.Pi
		}
	}
	return angle
}
