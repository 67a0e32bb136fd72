// edit/connect.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	gomath "math"

	"github.com/trkworks/trked/math"
)

// Connection solvers. Each one takes section snapshots and returns updated
// copies, never touching neighbor links; the engine wires topology after
// geometry is accepted.

// SolveCurveEndToStraightStart refits a curve's end onto a straight's start
// with a continuous tangent. The curve keeps its start anchor and heading,
// the straight keeps its far end; the join point slides along the straight
// axis until the solved curve's end heading matches the straight direction
// within headingTolDeg degrees.
func SolveCurveEndToStraightStart(curve, straight *Section, headingTolDeg float64) (*Section, *Section) {
	if curve.Kind != Curve || straight.Kind != Straight {
		return nil, nil
	}
	curveStart := curve.Start
	if math.IsZero2(curve.StartHeading) {
		return nil, nil
	}
	sh, ok := straightForwardHeading(straight)
	if !ok {
		return nil, nil
	}

	orientHint := 1.0
	if curve.Arc != nil {
		if curve.Arc.Radius != 0 {
			if curve.Arc.Radius < 0 {
				orientHint = -1.0
			}
		} else {
			cross := math.Cross2(curve.StartHeading, math.Sub2(curve.Arc.Center, curveStart))
			if cross < 0 {
				orientHint = -1.0
			}
		}
	}

	anchor := straight.End
	baseLen := straight.Length

	type solved struct {
		cand  Section
		delta float64 // signed degrees between solved end heading and the straight
	}
	cache := map[float64]*solved{}

	solveForL := func(l float64) *solved {
		if s, ok := cache[l]; ok {
			return s
		}
		if l <= 1.0 {
			cache[l] = nil
			return nil
		}
		join := math.Sub2(anchor, math.Scale2(sh, l))
		cands := solveCurveWithFixedHeading(curve, curveStart, join, curveStart, curve.StartHeading, orientHint)
		if len(cands) == 0 {
			cands = solveCurveWithFixedHeading(curve, curveStart, join, curveStart, curve.StartHeading, -orientHint)
		}
		var best *solved
		for i := range cands {
			c := &cands[i]
			if math.IsZero2(c.EndHeading) {
				continue
			}
			eh := math.Normalize2(c.EndHeading)
			delta := math.SignedAngle(eh, sh) * 180 / gomath.Pi
			if best == nil || gomath.Abs(delta) < gomath.Abs(best.delta) {
				best = &solved{cand: *c, delta: delta}
			}
		}
		cache[l] = best
		return best
	}

	var best *solved
	var bestL float64
	tryL := func(l float64) *solved {
		s := solveForL(l)
		if s != nil && (best == nil || gomath.Abs(s.delta) < gomath.Abs(best.delta)) {
			best = s
			bestL = l
		}
		return s
	}

	// Phase 1: broad scan for a sign-change bracket, widening then
	// densifying if none appears.
	var bracketLo, bracketHi float64
	haveBracket := false
	scanMin, scanMax := 0.01, 20.0
	const maxRange = 80.0
	samples := 150
	for pass := 0; pass < 5 && !haveBracket; pass++ {
		var prevL, prevDelta float64
		havePrev := false
		step := (scanMax - scanMin) / float64(samples)
		for i := 0; i <= samples; i++ {
			l := baseLen * (scanMin + step*float64(i))
			if l <= 0 {
				continue
			}
			s := tryL(l)
			if s != nil {
				if havePrev && s.delta*prevDelta < 0 {
					bracketLo, bracketHi = prevL, l
					haveBracket = true
					break
				}
				prevL, prevDelta = l, s.delta
				havePrev = true
			}
		}
		if !haveBracket {
			if scanMax < maxRange {
				scanMax = gomath.Min(maxRange, scanMax*2)
			} else {
				samples *= 2
			}
		}
	}
	if best == nil {
		return nil, nil
	}

	// Phase 2: local refinement around the coarse best, then bisection on
	// the bracket when one was found.
	span := baseLen * 0.05
	const steps = 80
	center := bestL
	for i := -steps; i <= steps; i++ {
		tryL(center + float64(i)*span/steps)
	}
	if haveBracket {
		lo, hi := bracketLo, bracketHi
		slo := solveForL(lo)
		if slo != nil {
			dlo := slo.delta
			for iter := 0; iter < 40; iter++ {
				mid := (lo + hi) / 2
				smid := solveForL(mid)
				if smid == nil {
					break
				}
				if gomath.Abs(smid.delta) < 1e-4 {
					lo, hi = mid, mid
					break
				}
				if smid.delta*dlo < 0 {
					hi = mid
				} else {
					lo = mid
					dlo = smid.delta
				}
			}
			tryL((lo + hi) / 2)
		}
	}

	// Newton micro-step when the local derivative is usable.
	if best != nil {
		eps := gomath.Max(1, bestL*1e-6)
		s0, s1 := solveForL(bestL), solveForL(bestL+eps)
		if s0 != nil && s1 != nil {
			if deriv := (s1.delta - s0.delta) / eps; gomath.Abs(deriv) > 1e-9 {
				tryL(bestL - s0.delta/deriv)
			}
		}
	}

	if best == nil || gomath.Abs(best.delta) > headingTolDeg {
		return nil, nil
	}

	newCurve := UpdateGeometry(best.cand)
	if newCurve.Arc != nil {
		signed := SignedRadiusFromHeading(curve.StartHeading, curveStart, newCurve.Arc.Center, newCurve.Arc.Radius)
		if signed != newCurve.Arc.Radius {
			arc := *newCurve.Arc
			arc.Radius = signed
			newCurve.Arc = &arc
			newCurve = UpdateGeometry(newCurve)
		}
	}

	newStraight := straight.clone()
	newStraight.Start = newCurve.End
	newStraight.End = anchor
	out := UpdateGeometry(newStraight)
	return &newCurve, &out
}

// SolveStraightToCurveFreeEnd connects a straight to the start of a curve,
// preserving the straight's start anchor and heading and the curve's end
// anchor and heading. The straight's length is searched until the circle
// tangent to both rays has matching radii at its two contact points.
func SolveStraightToCurveFreeEnd(straight, curve *Section) (*Section, *Section) {
	if straight.Kind != Straight || curve.Kind != Curve {
		return nil, nil
	}
	h, ok := straightForwardHeading(straight)
	if !ok {
		return nil, nil
	}
	if math.IsZero2(curve.EndHeading) {
		return nil, nil
	}
	eh := math.Normalize2(curve.EndHeading)

	anchor := straight.Start
	curveEnd := curve.End

	orientations := [2]float64{1, -1}
	if curve.Arc != nil && curve.Arc.Radius < 0 {
		orientations = [2]float64{-1, 1}
	}

	solveForLength := func(l, orient float64) (*Section, float64, bool) {
		if l <= 0 {
			return nil, 0, false
		}
		joinStart := math.Add2(anchor, math.Scale2(h, l))
		ns := math.Point{-orient * h[1], orient * h[0]}
		ne := math.Point{-orient * eh[1], orient * eh[0]}
		d := math.Sub2(curveEnd, joinStart)

		// Intersect the two center rays: joinStart + ns*ts = curveEnd + ne*te.
		det := ns[0]*(-ne[1]) - ns[1]*(-ne[0])
		if gomath.Abs(det) <= geomEps {
			return nil, 0, false
		}
		ts := (d[0]*(-ne[1]) - d[1]*(-ne[0])) / det
		te := (ns[0]*d[1] - ns[1]*d[0]) / det
		if ts <= 0 || te <= 0 {
			return nil, 0, false
		}
		center := math.Add2(joinStart, math.Scale2(ns, ts))

		vs := math.Sub2(joinStart, center)
		ve := math.Sub2(curveEnd, center)
		rs, re := math.Length2(vs), math.Length2(ve)
		if rs <= 0 || re <= 0 {
			return nil, 0, false
		}
		cross := math.Cross2(math.Normalize2(vs), math.Normalize2(ve))
		if cross == 0 || (cross > 0) != (orient > 0) {
			return nil, 0, false
		}
		dot := math.Clamp(math.Dot(math.Normalize2(vs), math.Normalize2(ve)), -1, 1)
		angle := gomath.Acos(dot)
		arcRadius := (rs + re) / 2
		arcLen := arcRadius * angle
		if arcLen <= 0 {
			return nil, 0, false
		}

		cand := curve.clone()
		cand.Start = joinStart
		cand.End = curveEnd
		cand.StartHeading = h
		cand.EndHeading = eh
		cand.Arc = &Arc{
			Center: center,
			Radius: SignedRadiusFromHeading(h, joinStart, center, arcRadius),
		}
		cand.Length = arcLen
		return &cand, ts - te, true
	}

	var best *Section
	bestAbsDelta := gomath.Inf(1)

	baseLen := gomath.Max(straight.Length, 1)
	minLen := gomath.Max(baseLen*0.1, 0.5)
	maxLen := baseLen * 20

	for _, orient := range orientations {
		var prevDelta, prevLength float64
		havePrev := false
		for i := 1; i <= 200; i++ {
			l := minLen + (maxLen-minLen)*float64(i)/200
			cand, delta, ok := solveForLength(l, orient)
			if !ok {
				continue
			}
			if abs := gomath.Abs(delta); cand != nil && abs < bestAbsDelta {
				bestAbsDelta = abs
				best = cand
			}
			if havePrev && delta*prevDelta < 0 {
				lo, hi := prevLength, l
				for iter := 0; iter < 50; iter++ {
					mid := (lo + hi) / 2
					candMid, deltaMid, okMid := solveForLength(mid, orient)
					if !okMid {
						break
					}
					if abs := gomath.Abs(deltaMid); candMid != nil && abs < bestAbsDelta {
						bestAbsDelta = abs
						best = candMid
					}
					if deltaMid*prevDelta < 0 {
						hi = mid
					} else {
						lo = mid
						prevDelta = deltaMid
					}
				}
				break
			}
			prevDelta, prevLength = delta, l
			havePrev = true
		}
	}

	if best == nil {
		return nil, nil
	}
	radiusTol := 1e-3
	if best.Arc != nil {
		radiusTol = gomath.Max(1e-3, gomath.Abs(best.Arc.Radius)*1e-3)
	}
	if bestAbsDelta > radiusTol {
		return nil, nil
	}

	newStraight := straight.clone()
	newStraight.End = best.Start

	outCurve := UpdateGeometry(*best)
	outStraight := UpdateGeometry(newStraight)
	return &outStraight, &outCurve
}

// SolveStraightEndToCurveEndpoint connects one straight endpoint to one
// curve endpoint. When the straight's end meets the curve's start the curve
// is refit around a free-end solve; in every other pairing the curve is
// preserved and the straight is rebuilt along the curve's tangent at the
// target endpoint, keeping its length. minStraightLength guards the result.
func SolveStraightEndToCurveEndpoint(
	straight *Section, straightEnd Endpoint,
	curve *Section, curveEnd Endpoint,
	minStraightLength float64,
) (*Section, *Section) {
	if curve.Kind != Curve || straight.Kind != Straight {
		return nil, nil
	}

	var solvedStraight, solvedCurve *Section
	if straightEnd == EndNode && curveEnd == StartNode {
		solvedStraight, solvedCurve = SolveStraightToCurveFreeEnd(straight, curve)
		if solvedStraight == nil {
			return nil, nil
		}
	} else {
		target := curve.Node(curveEnd)
		heading := curve.Heading(curveEnd)
		if math.IsZero2(heading) {
			return nil, nil
		}
		h := math.Normalize2(heading)
		l := straight.Length
		if l <= 0 {
			return nil, nil
		}
		s := straight.clone()
		if straightEnd == EndNode {
			s.Start = math.Sub2(target, math.Scale2(h, l))
			s.End = target
		} else {
			s.Start = target
			s.End = math.Add2(target, math.Scale2(h, l))
		}
		solvedStraight = &s
		c := curve.clone()
		solvedCurve = &c
	}

	outCurve := UpdateGeometry(*solvedCurve)
	outStraight := UpdateGeometry(*solvedStraight)
	if outStraight.Length < minStraightLength {
		return nil, nil
	}
	return &outStraight, &outCurve
}

// solveStraightToStraight joins two straights at a shared point. A target
// floating at both ends is translated onto the dragged endpoint along the
// dragged heading; otherwise the join succeeds only when the endpoint
// headings are identical and the three chain points are collinear.
func solveStraightToStraight(
	sections []Section,
	dragged *Section, draggedEnd Endpoint,
	target *Section, targetEnd Endpoint,
) (*Section, *Section) {
	draggedHeading := dragged.Heading(draggedEnd)
	if math.IsZero2(draggedHeading) {
		return nil, nil
	}

	targetFloating := target.IsDisconnected(sections, StartNode) && target.IsDisconnected(sections, EndNode)
	if targetFloating {
		join := dragged.Node(draggedEnd)
		segLen := math.Distance2(target.Start, target.End)
		if segLen <= 0 {
			return nil, nil
		}
		d := math.Scale2(draggedHeading, segLen)
		t := target.clone()
		if targetEnd == StartNode {
			t.Start = join
			t.End = math.Add2(join, d)
		} else {
			t.Start = math.Sub2(join, d)
			t.End = join
		}
		dr := UpdateGeometry(dragged.clone())
		rt := UpdateGeometry(t)
		return &dr, &rt
	}

	targetHeading := target.Heading(targetEnd)
	if math.IsZero2(targetHeading) || RoundHeading(draggedHeading) != RoundHeading(targetHeading) {
		return nil, nil
	}

	join := target.Node(targetEnd)
	draggedOpposite := dragged.Node(otherEnd(draggedEnd))
	targetOpposite := target.Node(otherEnd(targetEnd))
	if !straightChain(draggedOpposite, join, targetOpposite) {
		return nil, nil
	}

	dr := dragged.clone()
	if draggedEnd == StartNode {
		dr.Start = join
	} else {
		dr.End = join
	}
	t := target.clone()
	if targetEnd == StartNode {
		t.Start = join
	} else {
		t.End = join
	}
	rd := UpdateGeometry(dr)
	rt := UpdateGeometry(t)
	return &rd, &rt
}

func otherEnd(e Endpoint) Endpoint {
	if e == StartNode {
		return EndNode
	}
	return StartNode
}

// straightForwardHeading returns the straight's forward unit heading,
// preferring the stored start heading over the endpoint difference.
func straightForwardHeading(s *Section) (math.Point, bool) {
	h := s.StartHeading
	if math.IsZero2(h) {
		h = math.Sub2(s.End, s.Start)
	}
	if math.IsZero2(h) {
		return math.Point{}, false
	}
	return math.Normalize2(h), true
}
