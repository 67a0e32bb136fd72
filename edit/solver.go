// edit/solver.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	gomath "math"

	"github.com/trkworks/trked/math"
	"github.com/trkworks/trked/util"
)

// CurveSolveTolerance is the default radius slack, in DLAT units, allowed
// before a dragged curve candidate is penalized.
const CurveSolveTolerance = 1.0

// orientationHint guesses the turn direction of a curve from its center and
// endpoints, falling back to the heading pair, then counterclockwise.
func orientationHint(s *Section) float64 {
	if s.Arc != nil {
		cross := math.Cross2(math.Sub2(s.Start, s.Arc.Center), math.Sub2(s.End, s.Arc.Center))
		if gomath.Abs(cross) > geomEps {
			if cross > 0 {
				return 1
			}
			return -1
		}
	}
	if !math.IsZero2(s.StartHeading) && !math.IsZero2(s.EndHeading) {
		cross := math.Cross2(s.StartHeading, s.EndHeading)
		if gomath.Abs(cross) > geomEps {
			if cross > 0 {
				return 1
			}
			return -1
		}
	}
	return 1
}

// headingPenalty is the angle between the original and candidate headings,
// zero when either is unknown.
func headingPenalty(original, candidate math.Point) float64 {
	if math.IsZero2(original) || math.IsZero2(candidate) {
		return 0
	}
	return gomath.Acos(math.Clamp(math.Dot(original, candidate), -1, 1))
}

// arcLengthBetween measures the arc from start to end on the circle of the
// given center and radius. Returns false for a degenerate (zero) angle.
func arcLengthBetween(center, start, end math.Point, radius float64) (float64, bool) {
	sv := math.Sub2(start, center)
	ev := math.Sub2(end, center)
	dot := math.Clamp(math.Dot(sv, ev)/gomath.Max(radius*radius, 1e-9), -1, 1)
	angle := gomath.Abs(gomath.Atan2(math.Cross2(sv, ev), dot))
	if angle <= 0 {
		return 0, false
	}
	return radius * angle, true
}

// solveCurveWithFixedHeading finds curves through start and end whose
// tangent at fixedPoint equals fixedHeading. Both turn directions are
// tried; each viable one yields a candidate.
func solveCurveWithFixedHeading(
	sect *Section,
	start, end math.Point,
	fixedPoint math.Point,
	fixedHeading math.Point,
	orientHint float64,
) []Section {
	if math.IsZero2(fixedHeading) {
		return nil
	}
	h := math.Normalize2(fixedHeading)

	moving := end
	if fixedPoint == end {
		moving = start
	}
	d := math.Sub2(moving, fixedPoint)

	var out []Section
	for _, orient := range [2]float64{orientHint, -orientHint} {
		normal := math.Point{-orient * h[1], orient * h[0]}
		dot := math.Dot(d, normal)
		if gomath.Abs(dot) <= geomEps {
			continue
		}
		radius := math.Dot(d, d) / (2 * dot)
		if radius <= 0 {
			continue
		}
		center := math.Add2(fixedPoint, math.Scale2(normal, radius))
		sh := curveTangent(math.Sub2(start, center), orient)
		eh := curveTangent(math.Sub2(end, center), orient)
		if math.IsZero2(sh) || math.IsZero2(eh) {
			continue
		}
		if _, ok := arcLengthBetween(center, start, end, radius); !ok {
			continue
		}

		cand := sect.clone()
		cand.Start = start
		cand.End = end
		cand.Arc = &Arc{Center: center, Radius: radius}
		cand.StartHeading = sh
		cand.EndHeading = eh
		out = append(out, rebuildShape(cand))
	}
	return out
}

// SolveCurveWithFixedHeading returns the best curve through start and end
// whose tangent at the fixed endpoint matches that endpoint's current
// heading. Candidates are ranked by radius drift from the existing arc,
// with arc length breaking ties toward the shorter solution. Returns nil
// when no orientation admits a circle.
func SolveCurveWithFixedHeading(sect *Section, start, end math.Point, fixedEnd Endpoint) *Section {
	fixedPoint, fixedHeading := start, sect.StartHeading
	if fixedEnd == EndNode {
		fixedPoint, fixedHeading = end, sect.EndHeading
	}
	cands := solveCurveWithFixedHeading(sect, start, end, fixedPoint, fixedHeading, orientationHint(sect))
	var best *Section
	bestScore := gomath.Inf(1)
	oldRadius := 0.0
	if sect.Arc != nil {
		oldRadius = gomath.Abs(sect.Arc.Radius)
	}
	for i := range cands {
		c := &cands[i]
		score := c.Length
		if oldRadius > 0 {
			score += gomath.Abs(c.Arc.Radius-oldRadius) * 10
		}
		if score < bestScore {
			bestScore = score
			cand := *c
			best = &cand
		}
	}
	return best
}

// curveSolutionMetric scores a candidate against the section being dragged.
// Heading deviation dominates; radius drift beyond tolerance and center
// displacement are tie breakers.
func curveSolutionMetric(center math.Point, radius float64, sh, eh math.Point, sect *Section, tolerance float64) float64 {
	var centerPenalty, radiusPenalty float64
	if sect.Arc != nil {
		centerPenalty = math.Distance2(center, sect.Arc.Center) * 0.01
		if sect.Arc.Radius > 0 {
			delta := gomath.Abs(radius - sect.Arc.Radius)
			radiusPenalty = gomath.Max(0, delta-tolerance) * 0.05
		}
	}
	heading := headingPenalty(sect.StartHeading, sh) + headingPenalty(sect.EndHeading, eh)
	return heading*2 + radiusPenalty + centerPenalty
}

// SolveCurveDrag refits a curve after one or both endpoints moved. When
// exactly one endpoint moved and the opposite heading is known, solutions
// preserving that heading are preferred; otherwise candidate centers along
// the chord normal are scored. Returns nil when no candidate works.
func SolveCurveDrag(sect *Section, start, end math.Point, tolerance float64) *Section {
	if start == end {
		return nil
	}

	centerHint := start
	if sect.Arc != nil {
		centerHint = sect.Arc.Center
	}
	orientHint := orientationHint(sect)

	var best *Section
	bestScore := gomath.Inf(1)

	movedStart := start != sect.Start
	movedEnd := end != sect.End
	var fixed []Section
	if movedStart && !movedEnd && !math.IsZero2(sect.EndHeading) {
		fixed = solveCurveWithFixedHeading(sect, start, end, end, sect.EndHeading, orientHint)
	} else if movedEnd && !movedStart && !math.IsZero2(sect.StartHeading) {
		fixed = solveCurveWithFixedHeading(sect, start, end, start, sect.StartHeading, orientHint)
	}
	for i := range fixed {
		c := &fixed[i]
		score := curveSolutionMetric(c.Arc.Center, c.Arc.Radius, c.StartHeading, c.EndHeading, sect, tolerance)
		if score < bestScore {
			bestScore = score
			cand := *c
			best = &cand
		}
	}
	if best != nil {
		return best
	}

	chord := math.Sub2(end, start)
	chordLen := math.Length2(chord)
	if chordLen <= 1e-6 {
		return nil
	}
	halfChord := chordLen / 2
	mid := math.Mid2(start, end)
	normal := math.Point{-chord[1] / chordLen, chord[0] / chordLen}

	offsetFromCenter := math.Dot(math.Sub2(centerHint, mid), normal)
	offsetSign := util.Select(offsetFromCenter < 0, -1.0, 1.0)

	// Candidate center offsets along the chord normal: one preserving the
	// old radius, one preserving the center displacement, and their blend.
	var offsets []float64
	var radiusOffset float64
	haveRadiusOffset := false
	if sect.Arc != nil && gomath.Abs(sect.Arc.Radius) > halfChord {
		radiusOffset = offsetSign * gomath.Sqrt(gomath.Max(sect.Arc.Radius*sect.Arc.Radius-halfChord*halfChord, 0))
		haveRadiusOffset = true
		offsets = append(offsets, radiusOffset)
	}
	preferred := offsetSign * gomath.Max(gomath.Abs(offsetFromCenter), tolerance)
	offsets = append(offsets, preferred)
	if haveRadiusOffset {
		offsets = append(offsets, (radiusOffset+preferred)/2)
	}

	for _, offset := range offsets {
		if offset == 0 {
			continue
		}
		center := math.Add2(mid, math.Scale2(normal, offset))
		radius := math.Distance2(start, center)
		if radius <= halfChord {
			continue
		}
		orient := util.Select(offset < 0, -1.0, 1.0)
		sh := curveTangent(math.Sub2(start, center), orient)
		eh := curveTangent(math.Sub2(end, center), orient)
		if _, ok := arcLengthBetween(center, start, end, radius); !ok {
			continue
		}

		score := curveSolutionMetric(center, radius, sh, eh, sect, tolerance)
		if score < bestScore {
			bestScore = score
			cand := sect.clone()
			cand.Start = start
			cand.End = end
			cand.Arc = &Arc{Center: center, Radius: radius}
			cand.StartHeading = sh
			cand.EndHeading = eh
			cand = rebuildShape(cand)
			best = &cand
		}
	}
	return best
}

// updateStraightEndpoints rebuilds a straight around new endpoints.
func updateStraightEndpoints(sect *Section, start, end math.Point) *Section {
	s := sect.clone()
	s.Start = start
	s.End = end
	s = UpdateGeometry(s)
	return &s
}
