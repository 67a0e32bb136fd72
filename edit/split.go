// edit/split.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	gomath "math"

	"github.com/trkworks/trked/math"
)

const (
	// Minimum fraction of a section that either half of a split must keep.
	minSplitFraction = 0.02
)

// Split divides the section at index into two sections at the point
// nearest to p, returning a new snapshot. Splits landing within
// minSplitFraction of either endpoint fail with ErrSplitTooClose.
func Split(sections []Section, index int, p math.Point) ([]Section, error) {
	if index < 0 || index >= len(sections) {
		return nil, ErrBadIndex
	}
	s := &sections[index]
	var first, second Section
	var err error
	switch s.Kind {
	case Curve:
		first, second, err = splitCurve(s, p)
	default:
		first, second, err = splitStraight(s, p)
	}
	if err != nil {
		return nil, err
	}
	return finalizeSplit(sections, index, first, second), nil
}

// splitStraight projects p onto the segment and cuts there.
func splitStraight(s *Section, p math.Point) (Section, Section, error) {
	ab := math.Sub2(s.End, s.Start)
	den := math.Dot(ab, ab)
	if den <= 0 {
		return Section{}, Section{}, ErrNoSolution
	}
	t := math.Clamp(math.Dot(math.Sub2(p, s.Start), ab)/den, 0, 1)
	if t < minSplitFraction || t > 1-minSplitFraction {
		return Section{}, Section{}, ErrSplitTooClose
	}
	mid := math.Lerp2(t, s.Start, s.End)

	first := s.clone()
	first.End = mid

	second := s.clone()
	second.Start = mid

	return UpdateGeometry(first), UpdateGeometry(second), nil
}

// splitCurve snaps p onto the arc's circle and cuts at that angle. The
// fraction is measured along the directed sweep so the guard is angular,
// not chordal.
func splitCurve(s *Section, p math.Point) (Section, Section, error) {
	if s.Arc == nil {
		return Section{}, Section{}, ErrNoSolution
	}
	center := s.Arc.Center
	radius := gomath.Abs(s.Arc.Radius)
	if radius <= 0 {
		return Section{}, Section{}, ErrNoSolution
	}

	orient := curveOrientation(s)

	vs := math.Sub2(s.Start, center)
	ve := math.Sub2(s.End, center)
	vp := math.Sub2(p, center)
	if math.IsZero2(vp) {
		return Section{}, Section{}, ErrSplitTooClose
	}

	total := directedSweep(vs, ve, orient)
	toMid := directedSweep(vs, vp, orient)
	frac := toMid / total
	if frac < minSplitFraction || frac > 1-minSplitFraction {
		return Section{}, Section{}, ErrSplitTooClose
	}

	mid := math.Add2(center, math.Scale2(math.Normalize2(vp), radius))
	midHeading := RoundHeading(curveTangent(math.Normalize2(vp), orient))

	first := s.clone()
	first.End = mid
	first.EndHeading = midHeading

	second := s.clone()
	second.Start = mid
	second.StartHeading = midHeading

	return UpdateGeometry(first), UpdateGeometry(second), nil
}

// directedSweep returns the positive angular span from one radial vector
// to another, measured in the given orientation.
func directedSweep(from, to math.Point, orient float64) float64 {
	return gomath.Abs(math.DirectedAngle(math.Atan2Vec(from), math.Atan2Vec(to), orient))
}

// curveOrientation returns +1 for a counterclockwise arc, -1 for
// clockwise, derived from the start tangent when present and falling back
// to the signed radius.
func curveOrientation(s *Section) float64 {
	if s.Arc != nil && !math.IsZero2(s.StartHeading) {
		radial := math.Sub2(s.Start, s.Arc.Center)
		if cross := math.Cross2(radial, s.StartHeading); cross != 0 {
			return gomath.Copysign(1, cross)
		}
	}
	if s.Arc != nil && s.Arc.Radius < 0 {
		return -1
	}
	return 1
}

// finalizeSplit replaces sections[index] with the two halves and rebuilds
// ids, links, and cumulative distances.
func finalizeSplit(sections []Section, index int, first, second Section) []Section {
	n := len(sections)
	out := make([]Section, 0, n+1)
	for i := 0; i < index; i++ {
		out = append(out, sections[i].clone())
	}
	out = append(out, first, second)
	for i := index + 1; i < n; i++ {
		out = append(out, sections[i].clone())
	}

	shift := func(id SectionID) SectionID {
		if id == None {
			return None
		}
		if int(id) > index {
			return id + 1
		}
		return id
	}
	for i := range out {
		if i == index || i == index+1 {
			continue
		}
		out[i].Prev = shift(out[i].Prev)
		out[i].Next = shift(out[i].Next)
	}

	prev := shift(sections[index].Prev)
	next := shift(sections[index].Next)
	out[index].ID = SectionID(index)
	out[index].Prev = prev
	out[index].Next = SectionID(index + 1)
	out[index+1].ID = SectionID(index + 1)
	out[index+1].Prev = SectionID(index)
	out[index+1].Next = next
	if prev.Valid(len(out)) {
		out[prev].Next = SectionID(index)
	}
	if next.Valid(len(out)) {
		out[next].Prev = SectionID(index + 1)
	}

	for i := range out {
		out[i].ID = SectionID(i)
		out[i] = UpdateGeometry(out[i])
	}
	recomputeStartDLONG(out)
	return out
}

// Delete removes the section at index, detaching its neighbors. Remaining
// sections keep their relative order and get renumbered.
func Delete(sections []Section, index int) ([]Section, error) {
	if index < 0 || index >= len(sections) {
		return nil, ErrBadIndex
	}

	out := make([]Section, 0, len(sections)-1)
	remap := make(map[SectionID]SectionID, len(sections))
	for i := range sections {
		if i == index {
			continue
		}
		remap[SectionID(i)] = SectionID(len(out))
		out = append(out, sections[i].clone())
	}

	for i := range out {
		if id, ok := remap[out[i].Prev]; ok {
			out[i].Prev = id
		} else {
			out[i].Prev = None
		}
		if id, ok := remap[out[i].Next]; ok {
			out[i].Next = id
		} else {
			out[i].Next = None
		}
		out[i].ID = SectionID(i)
	}
	recomputeStartDLONG(out)
	return out, nil
}
