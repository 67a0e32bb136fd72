// trk/trk.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package trk reads, writes, and reconstructs the compact track format: a
// flat little-endian int32 stream that stores each section as a length,
// heading, and curvature plus per-lane cubic elevation polynomials. Absolute
// world coordinates are not stored; they are rebuilt by walking the section
// chain (see centerline.go) or recovered from the cached per-lane position
// fields in the elevation table.
package trk

// All on-disk quantities are int32. Distances (DLONG/DLAT) are in units of
// 1/500 inch; headings are fixed-point angles where the full int32 range
// spans -pi..pi.
const (
	Magic   = 1414676811
	Version = 1

	// Sentinel (0xCCCCCCCC as int32) marks "field not applicable", e.g. the
	// unused angle slots of curve records. It must survive a decode/encode
	// round trip bit for bit.
	Sentinel = -858993460

	// LaneSlots is the fixed number of DLAT slots in the header; only the
	// first Header.NumLanes are active.
	LaneSlots = 10

	headerWords       = 7
	elevRowWords      = 8
	groundStripWords  = 3
	sectionFixedWords = 13
	boundaryWords     = 5
)

type Kind int32

const (
	Straight Kind = 1
	Curve    Kind = 2
)

func (k Kind) String() string {
	switch k {
	case Straight:
		return "straight"
	case Curve:
		return "curve"
	}
	return "invalid"
}

type Header struct {
	Magic        int32
	Version      int32
	TrackLength  int32 // total longitudinal length, DLONG units
	NumLanes     int32 // cross-section template entries
	NumSections  int32
	GroundBytes  int32 // byte size of the flat ground-strip table
	SectionBytes int32 // byte size of the variable-length section table
}

// ElevationRow is one (section, lane) entry of the flat elevation table.
// G1..G4 are the cubic altitude coefficients (altitude(s) = G1*s^3 + G2*s^2 +
// G3*s + G4 for normalized s in [0,1]); G5 and G6 are the stored derivative
// coefficients (3*G1 and 2*G2). For straight sections Pos1/Pos2 cache the
// lane's absolute world (x, y) at the section start; for curves Pos1 is the
// lane radius (section radius minus lane DLAT) and Pos2 is Sentinel.
type ElevationRow struct {
	G1, G2, G3, G4 int32
	G5, G6         int32
	Pos1, Pos2     int32
}

// GroundStrip tiles the roadway/off-track surface across a DLAT range.
type GroundStrip struct {
	StartDLAT int32
	EndDLAT   int32
	Surface   int32 // see surface.go
}

// BoundaryStrip is a wall/fence across a DLAT range. The two padding words
// are sentinels on disk and are preserved on round trip.
type BoundaryStrip struct {
	Wall       int32 // see surface.go
	StartDLAT  int32
	EndDLAT    int32
	Pad1, Pad2 int32
}

// StraightGeom carries the five cached geometry words of a straight record:
// a blended direction pair (A1, A2), the 2^30-scaled (-sin, cos) of the
// heading (A3, A4), and the 2^30-scaled planar/adjusted length ratio (A5).
type StraightGeom struct {
	A1, A2, A3, A4, A5 int32
}

// CurveGeom carries the five geometry words of a curve record: the circle
// center, half the heading change across the arc, and two sentinel words.
type CurveGeom struct {
	CenterX, CenterY int32
	DeltaHeading     int32 // (next heading - this heading)/2, wrapped to +-2^30
	Spare1, Spare2   int32 // Sentinel on disk, preserved on round trip
}

// Section is one decoded section record. Exactly one of Straight/Curve is
// non-nil, matching Kind.
type Section struct {
	Kind       Kind
	StartDLONG int32
	Length     int32 // DLONG units
	Heading    int32 // fixed-point angle

	Straight *StraightGeom
	Curve    *CurveGeom

	ElevIndex    int32 // first row of this section in File.Elevation
	GroundCount  int32
	GroundOffset int32 // first strip of this section in File.Ground

	Boundaries []BoundaryStrip
}

type File struct {
	Header   Header
	LaneDLAT [LaneSlots]int32

	// Elevation has NumSections*NumLanes rows, section-major.
	Elevation []ElevationRow
	Ground    []GroundStrip
	Sections  []Section
}

// ActiveLanes returns the active DLAT entries of the cross-section template.
func (f *File) ActiveLanes() []int32 {
	return f.LaneDLAT[:f.Header.NumLanes]
}

// ElevationRow returns the elevation entry for the given section and lane.
func (f *File) ElevationRow(sect, lane int) *ElevationRow {
	return &f.Elevation[int(f.Sections[sect].ElevIndex)+lane]
}

// SectionGround returns the ground strips belonging to the given section.
func (f *File) SectionGround(sect int) []GroundStrip {
	s := &f.Sections[sect]
	return f.Ground[s.GroundOffset : s.GroundOffset+s.GroundCount]
}

func (s *Section) EndDLONG() int32 {
	return s.StartDLONG + s.Length
}

// sectionWords returns the record size of s in int32 words.
func (s *Section) sectionWords() int {
	return sectionFixedWords + boundaryWords*len(s.Boundaries)
}
