// edit/invariants.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	"fmt"
	gomath "math"
)

// InvariantError reports a structural or geometric invariant violation in a
// section snapshot.
type InvariantError struct {
	Section SectionID
	Reason  string
}

func (e *InvariantError) Error() string {
	if e.Section == None {
		return "edit: " + e.Reason
	}
	return fmt.Sprintf("edit: section %d: %s", e.Section, e.Reason)
}

func invariantErrorf(id SectionID, format string, args ...interface{}) error {
	return &InvariantError{Section: id, Reason: fmt.Sprintf(format, args...)}
}

// ValidateSections runs all snapshot invariants: ids unique and equal to
// list position, neighbor links valid and reciprocal, geometry finite, and
// polylines anchored to their section endpoints.
func ValidateSections(sections []Section) error {
	if err := validateIDs(sections); err != nil {
		return err
	}
	if err := validateTopology(sections); err != nil {
		return err
	}
	return validateGeometry(sections)
}

func validateIDs(sections []Section) error {
	for i := range sections {
		if sections[i].ID != SectionID(i) {
			return invariantErrorf(sections[i].ID, "id does not match position %d", i)
		}
	}
	return nil
}

func validateTopology(sections []Section) error {
	n := len(sections)
	for i := range sections {
		s := &sections[i]
		if s.Prev != None && !s.Prev.Valid(n) {
			return invariantErrorf(s.ID, "invalid prev link %d", s.Prev)
		}
		if s.Next != None && !s.Next.Valid(n) {
			return invariantErrorf(s.ID, "invalid next link %d", s.Next)
		}
		if s.Prev != None && sections[s.Prev].Next != s.ID {
			return invariantErrorf(s.ID, "prev %d does not link back (next=%d)",
				s.Prev, sections[s.Prev].Next)
		}
		if s.Next != None && sections[s.Next].Prev != s.ID {
			return invariantErrorf(s.ID, "next %d does not link back (prev=%d)",
				s.Next, sections[s.Next].Prev)
		}
	}
	return nil
}

func validateGeometry(sections []Section) error {
	for i := range sections {
		s := &sections[i]
		for _, v := range []float64{s.Start[0], s.Start[1], s.End[0], s.End[1]} {
			if gomath.IsNaN(v) || gomath.IsInf(v, 0) {
				return invariantErrorf(s.ID, "non-finite endpoint coordinates")
			}
		}
		if gomath.IsNaN(s.Length) || gomath.IsInf(s.Length, 0) || s.Length < 0 {
			return invariantErrorf(s.ID, "invalid length %v", s.Length)
		}
		if len(s.Polyline) > 0 {
			if s.Polyline[0] != s.Start {
				return invariantErrorf(s.ID, "polyline does not start at section start")
			}
			if s.Polyline[len(s.Polyline)-1] != s.End {
				return invariantErrorf(s.ID, "polyline does not end at section end")
			}
		}
	}
	return nil
}
