// sg/sg.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sg reads and writes the absolute-coordinate track layout. Unlike
// the compact layout, every section record carries its own world endpoints,
// arc center, and per-lane altitude samples, so records are fixed-size and
// the file needs no cross-referenced offset tables.
package sg

import (
	gomath "math"

	"github.com/trkworks/trked/util"
)

const (
	// Magic is the first header word, "SG" in the high bytes.
	Magic = 0x53470000

	headerWords = 6

	// Each record holds 17 fixed words, alt/grade pairs for every lane,
	// a strip count, and ten strip slots of four words each.
	fixedWords = 17
	stripSlots = 10
	stripWords = 4

	// CosSinScale is the fixed-point scale of the packed heading
	// cosine/sine pairs.
	CosSinScale = 32768
)

type Kind int32

const (
	Straight Kind = 1
	Curve    Kind = 2
)

// Strip is one cross-sectional span of a section. Type1 values 0 through 6
// name ground surfaces; 7 and above are boundaries, with Type2 carrying the
// fence flag.
type Strip struct {
	Type1, Type2 int32
	Start, End   int32 // DLAT edges
}

// IsBoundary reports whether the strip is a wall rather than a surface.
func (s Strip) IsBoundary() bool { return s.Type1 >= 7 }

// Lane is one altitude sample of a section at a fixed DLAT.
type Lane struct {
	Alt   int32
	Grade int32 // slope * 8192
}

// Section is one fixed-size record. Curve fields (Center, packed angles,
// Radius) are meaningful only when Kind is Curve; straights carry zeros
// there.
type Section struct {
	Kind       Kind
	Next, Prev int32
	StartX     int32
	StartY     int32
	EndX       int32
	EndY       int32
	StartDLONG int32
	Length     int32
	CenterX    int32
	CenterY    int32
	SangCos    int32
	SangSin    int32
	EangCos    int32
	EangSin    int32
	Radius     int32
	Reserved   int32

	Lanes  []Lane
	Strips []Strip
}

// EndDLONG returns the DLONG where the section ends.
func (s *Section) EndDLONG() int32 { return s.StartDLONG + s.Length }

// GroundStrips returns the strips describing surfaces, in file order.
func (s *Section) GroundStrips() []Strip {
	return util.FilterSlice(s.Strips, func(st Strip) bool { return !st.IsBoundary() })
}

// BoundaryStrips returns the strips describing walls, in file order.
func (s *Section) BoundaryStrips() []Strip {
	return util.FilterSlice(s.Strips, func(st Strip) bool { return st.IsBoundary() })
}

// File is a decoded absolute layout.
type File struct {
	Unknown1, Unknown2, Unknown3 int32 // header words preserved verbatim

	LaneDLAT []int32
	Sections []Section
}

func (f *File) LaneCount() int { return len(f.LaneDLAT) }

// PackCosSin converts an angle in radians to the stored cosine/sine pair.
func PackCosSin(r float64) (int32, int32) {
	return int32(gomath.Round(gomath.Cos(r) * CosSinScale)),
		int32(gomath.Round(gomath.Sin(r) * CosSinScale))
}

// UnpackCosSin recovers the angle from a stored cosine/sine pair.
func UnpackCosSin(c, s int32) float64 {
	return gomath.Atan2(float64(s), float64(c))
}
