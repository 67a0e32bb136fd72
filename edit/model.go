// edit/model.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package edit holds the editable track model: sections as immutable
// snapshots with explicit connectivity, geometry solvers for dragging and
// connecting endpoints, and loop-level operations. Every operation takes a
// section slice and returns a new one; callers decide what to keep.
package edit

import (
	"github.com/trkworks/trked/math"
)

// SectionID indexes a section within a snapshot. None marks a missing
// neighbor link.
type SectionID int

const None SectionID = -1

// Valid reports whether id references a section in a snapshot of n entries.
func (id SectionID) Valid(n int) bool { return id >= 0 && int(id) < n }

type Kind int

const (
	Straight Kind = iota + 1
	Curve
)

func (k Kind) String() string {
	switch k {
	case Straight:
		return "straight"
	case Curve:
		return "curve"
	default:
		return "unknown"
	}
}

// Endpoint names one of a section's two nodes.
type Endpoint int

const (
	StartNode Endpoint = iota
	EndNode
)

func (e Endpoint) String() string {
	if e == StartNode {
		return "start"
	}
	return "end"
}

// NodeRef addresses one endpoint of one section.
type NodeRef struct {
	Section SectionID
	End     Endpoint
}

// Arc is the circular payload of a curve section. Radius is signed:
// positive when the center sits to the left of the start heading.
type Arc struct {
	Center math.Point
	Radius float64
}

// Section is one editable piece of track. Arc is non-nil exactly for
// curves. Heading vectors are unit length when set; the zero vector means
// unknown. Polyline always starts at Start and ends at End.
type Section struct {
	ID       SectionID
	SourceID SectionID // section this one was created from, None for new
	Kind     Kind
	Prev     SectionID
	Next     SectionID

	Start      math.Point
	End        math.Point
	StartDLONG float64
	Length     float64

	Arc *Arc

	StartHeading math.Point
	EndHeading   math.Point

	Polyline []math.Point
}

// clone returns a copy with its own Arc and Polyline backing.
func (s Section) clone() Section {
	if s.Arc != nil {
		a := *s.Arc
		s.Arc = &a
	}
	s.Polyline = append([]math.Point(nil), s.Polyline...)
	return s
}

// Heading returns the heading at the named endpoint, or the zero vector.
func (s *Section) Heading(e Endpoint) math.Point {
	if e == StartNode {
		return s.StartHeading
	}
	return s.EndHeading
}

// Node returns the position of the named endpoint.
func (s *Section) Node(e Endpoint) math.Point {
	if e == StartNode {
		return s.Start
	}
	return s.End
}

// OutwardHeading returns a unit vector pointing away from the section at
// the named endpoint, derived from the endpoints when no heading is set.
func (s *Section) OutwardHeading(e Endpoint) (math.Point, bool) {
	h := s.Heading(e)
	if math.IsZero2(h) {
		d := math.Sub2(s.End, s.Start)
		if math.IsZero2(d) {
			return math.Point{}, false
		}
		h = math.Normalize2(d)
	}
	if e == StartNode {
		return math.Scale2(h, -1), true
	}
	return h, true
}

// IsDisconnected reports whether the named endpoint has no neighbor, or the
// neighbor link is stale.
func (s *Section) IsDisconnected(sections []Section, e Endpoint) bool {
	id := s.Prev
	if e == EndNode {
		id = s.Next
	}
	return !id.Valid(len(sections))
}

// TotalLength sums the lengths of all sections starting after the last one.
func TotalLength(sections []Section) float64 {
	if len(sections) == 0 {
		return 0
	}
	last := sections[len(sections)-1]
	return last.StartDLONG + last.Length
}
