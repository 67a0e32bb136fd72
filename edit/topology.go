// edit/topology.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	gomath "math"

	"github.com/trkworks/trked/math"
)

// IsClosedLoop reports whether the sections form a single closed circuit:
// every link resolves, a forward walk from section 0 visits every section
// exactly once before returning to the start, and each forward link has a
// matching back link.
func IsClosedLoop(sections []Section) bool {
	n := len(sections)
	if n == 0 {
		return false
	}
	for i := range sections {
		s := &sections[i]
		if !s.Next.Valid(n) || !s.Prev.Valid(n) {
			return false
		}
	}

	visited := make(map[SectionID]bool, n)
	cur := SectionID(0)
	for range sections {
		if visited[cur] {
			return false
		}
		visited[cur] = true
		next := sections[cur].Next
		if sections[next].Prev != cur {
			return false
		}
		cur = next
	}
	return cur == 0 && len(visited) == n
}

// CanonicalizeClosedLoop rewrites a closed loop so section indices follow
// travel order starting at startIdx, with every section oriented start to
// end along that direction. Geometry is flipped in place where a section
// runs against the loop; links and cumulative distances are rebuilt.
func CanonicalizeClosedLoop(sections []Section, startIdx int) ([]Section, error) {
	n := len(sections)
	if n == 0 {
		return nil, ErrBadTopology
	}
	if startIdx < 0 || startIdx >= n {
		return nil, ErrBadIndex
	}
	if !IsClosedLoop(sections) {
		return nil, ErrNotClosed
	}

	order := make([]int, 0, n)
	cur := SectionID(startIdx)
	for range sections {
		order = append(order, int(cur))
		cur = sections[cur].Next
	}

	out := make([]Section, 0, n)
	for _, idx := range order {
		out = append(out, sections[idx].clone())
	}

	// Decide overall travel direction from how the first two sections abut.
	if n >= 2 {
		s0, s1 := &out[0], &out[1]
		forward := math.Distance2(s0.End, s1.Start)
		backward := math.Distance2(s0.Start, s1.End)
		if backward < forward {
			for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
			// Keep the requested section first after the reversal.
			rot := make([]Section, 0, n)
			pivot := 0
			for i := range out {
				if out[i].ID == SectionID(startIdx) {
					pivot = i
					break
				}
			}
			rot = append(rot, out[pivot:]...)
			rot = append(rot, out[:pivot]...)
			out = rot
		}
	}

	// Orient each section so its end meets the next section's start.
	if n >= 2 {
		next := &out[1]
		toNext := func(p math.Point) float64 {
			return gomath.Min(math.Distance2(p, next.Start), math.Distance2(p, next.End))
		}
		if toNext(out[0].Start) < toNext(out[0].End) {
			reverseSection(&out[0])
		}
		for i := 0; i < n-1; i++ {
			s := &out[i+1]
			if math.Distance2(out[i].End, s.End) < math.Distance2(out[i].End, s.Start) {
				reverseSection(s)
			}
		}
	}

	for i := range out {
		out[i].ID = SectionID(i)
		out[i].Prev = SectionID((i - 1 + n) % n)
		out[i].Next = SectionID((i + 1) % n)
		if out[i].Arc != nil && !math.IsZero2(out[i].StartHeading) {
			// Reversal flips travel direction, so the radius sign must
			// agree with the new start tangent.
			arc := *out[i].Arc
			arc.Radius = SignedRadiusFromHeading(out[i].StartHeading, out[i].Start, arc.Center, gomath.Abs(arc.Radius))
			out[i].Arc = &arc
		}
		out[i] = UpdateGeometry(out[i])
	}
	recomputeStartDLONG(out)
	return out, nil
}

// reverseSection swaps a section's direction of travel in place. Curve
// tangents trade places along with the endpoints; the signed radius is
// left alone since orientation is rederived from the tangents.
func reverseSection(s *Section) {
	s.Start, s.End = s.End, s.Start
	s.StartHeading, s.EndHeading = math.Scale2(s.EndHeading, -1), math.Scale2(s.StartHeading, -1)
	for i, j := 0, len(s.Polyline)-1; i < j; i, j = i+1, j-1 {
		s.Polyline[i], s.Polyline[j] = s.Polyline[j], s.Polyline[i]
	}
}

// SetStartFinish renumbers a closed loop so the given section becomes
// section 0, preserving travel direction.
func SetStartFinish(sections []Section, startIdx int) ([]Section, error) {
	n := len(sections)
	if startIdx < 0 || startIdx >= n {
		return nil, ErrBadIndex
	}
	if !IsClosedLoop(sections) {
		return nil, ErrNotClosed
	}

	out := make([]Section, 0, n)
	cur := SectionID(startIdx)
	for range sections {
		out = append(out, sections[cur].clone())
		cur = sections[cur].Next
	}
	for i := range out {
		out[i].ID = SectionID(i)
		out[i].Prev = SectionID((i - 1 + n) % n)
		out[i].Next = SectionID((i + 1) % n)
		out[i] = UpdateGeometry(out[i])
	}
	recomputeStartDLONG(out)
	return out, nil
}

// recomputeStartDLONG walks the slice in index order and assigns each
// section the running distance from section 0.
func recomputeStartDLONG(sections []Section) {
	d := 0.0
	for i := range sections {
		sections[i].StartDLONG = d
		d += sections[i].Length
	}
}
