// trk/centerline.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trk

import (
	gomath "math"

	"github.com/trkworks/trked/math"
)

// The compact layout never stores a section's world position directly;
// it is recovered from the per-lane position words of the elevation rows.
// For straight sections each lane row holds the lane's absolute x,y at the
// section start; for curves the first word holds the lane's radius about
// the section's arc center and the second is the fill sentinel.

// Centerline holds one reconstructed entry per section: a start point for
// straights, a radius (in X, Y unused) for curves.
type Centerline []math.Point

// BuildCenterline interpolates the two lanes straddling DLAT 0 to recover
// the centerline entry for every section.
func (f *File) BuildCenterline() Centerline {
	lanes := int(f.Header.NumLanes)
	left, right := 0, 0
	for i := 0; i < lanes; i++ {
		if f.LaneDLAT[i] > 0 {
			left, right = i, i-1
			break
		}
	}
	if right < 0 {
		right = 0
	}
	rd := float64(f.LaneDLAT[right])
	ld := float64(f.LaneDLAT[left])
	frac := 0.0
	if ld != rd {
		frac = -rd / (ld - rd)
	}

	cl := make(Centerline, len(f.Sections))
	for i := range f.Sections {
		r := f.ElevationRow(i, right)
		l := f.ElevationRow(i, left)
		cl[i][0] = float64(r.Pos1) + frac*float64(l.Pos1-r.Pos1)
		if f.Sections[i].Kind == Straight {
			// Curve rows carry the fill sentinel in the second word.
			cl[i][1] = float64(r.Pos2) + frac*float64(l.Pos2-r.Pos2)
		}
	}
	return cl
}

// SectionAt returns the section containing a DLONG and the normalized
// position within it. DLONGs past the last section boundary fall in the
// final section with s extrapolated.
func (f *File) SectionAt(dlong float64) (int, float64) {
	n := len(f.Sections)
	for i := 0; i < n-1; i++ {
		if dlong >= float64(f.Sections[i].StartDLONG) && dlong < float64(f.Sections[i+1].StartDLONG) {
			return i, (dlong - float64(f.Sections[i].StartDLONG)) / float64(f.Sections[i].Length)
		}
	}
	last := n - 1
	return last, (dlong - float64(f.Sections[last].StartDLONG)) / float64(f.Sections[last].Length)
}

// SectionStart returns the world x,y where a section begins.
func (f *File) SectionStart(sect int, cl Centerline) math.Point {
	s := &f.Sections[sect]
	if s.Kind == Straight {
		return cl[sect]
	}
	rad := cl[sect][0]
	angle := HeadingToRadians(s.Heading) - gomath.Pi/2
	center := math.Point{float64(s.Curve.CenterX), float64(s.Curve.CenterY)}
	return math.Add2(center, math.Scale2(math.UnitFromAngle(angle), rad))
}

// WorldPoint maps track coordinates (dlong, dlat) to world x,y,z. Positive
// DLAT is to the left of the direction of travel.
func (f *File) WorldPoint(dlong, dlat float64, cl Centerline) (float64, float64, float64) {
	sect, sub := f.SectionAt(dlong)
	s := &f.Sections[sect]
	next := (sect + 1) % len(f.Sections)

	if s.Kind == Straight {
		start := f.SectionStart(sect, cl)
		end := f.SectionStart(next, cl)
		c := math.Lerp2(sub, start, end)
		lat := math.Scale2(math.UnitFromAngle(HeadingToRadians(s.Heading)+gomath.Pi/2), dlat)
		p := math.Add2(c, lat)
		return p[0], p[1], f.Altitude(sect, sub, dlat)
	}

	rad := cl[sect][0] - dlat
	startHeading := HeadingToRadians(s.Heading) - gomath.Pi/2
	endHeading := HeadingToRadians(f.Sections[next].Heading) - gomath.Pi/2
	arc := math.WrapAngle(endHeading - startHeading)
	p := math.Add2(
		math.Point{float64(s.Curve.CenterX), float64(s.Curve.CenterY)},
		math.Scale2(math.UnitFromAngle(startHeading+arc*sub), rad))
	return p[0], p[1], f.Altitude(sect, sub, dlat)
}

// LanePositions returns the world x,y of every lane at the start of a
// section. Straight lanes offset perpendicular to the heading; curve lanes
// are radius adjustments about the arc center.
func (f *File) LanePositions(sect int, cl Centerline) []math.Point {
	s := &f.Sections[sect]
	lanes := int(f.Header.NumLanes)
	out := make([]math.Point, lanes)

	if s.Kind == Straight {
		start := cl[sect]
		perp := math.UnitFromAngle(HeadingToRadians(s.Heading) + gomath.Pi/2)
		for i := 0; i < lanes; i++ {
			out[i] = math.Add2(start, math.Scale2(perp, float64(f.LaneDLAT[i])))
		}
		return out
	}

	center := math.Point{float64(s.Curve.CenterX), float64(s.Curve.CenterY)}
	radial := math.UnitFromAngle(HeadingToRadians(s.Heading) - gomath.Pi/2)
	for i := 0; i < lanes; i++ {
		out[i] = math.Add2(center, math.Scale2(radial, cl[sect][0]-float64(f.LaneDLAT[i])))
	}
	return out
}

// Altitude evaluates the elevation profile at a normalized position within
// a section, interpolating between the two lanes bracketing the DLAT.
// DLATs outside the lane range clamp to the nearest lane.
func (f *File) Altitude(sect int, sub, dlat float64) float64 {
	lanes := int(f.Header.NumLanes)
	left, right := 0, 0
	switch {
	case dlat <= float64(f.LaneDLAT[0]):
		// clamped below
	case dlat >= float64(f.LaneDLAT[lanes-1]):
		left, right = lanes-1, lanes-1
	default:
		for i := 0; i < lanes-1; i++ {
			if float64(f.LaneDLAT[i]) <= dlat && dlat < float64(f.LaneDLAT[i+1]) {
				left, right = i+1, i
				break
			}
		}
	}

	length := float64(f.Sections[sect].Length)
	la := f.ElevationRow(sect, left).Cubic(length).Evaluate(sub)
	ra := f.ElevationRow(sect, right).Cubic(length).Evaluate(sub)

	span := float64(f.LaneDLAT[left] - f.LaneDLAT[right])
	if span == 0 {
		return ra
	}
	return ra + (la-ra)*(dlat-float64(f.LaneDLAT[right]))/span
}

// StripDLAT interpolates a ground or boundary strip edge along a section.
func StripDLAT(start, end int32, sub float64) float64 {
	return float64(start) + float64(end-start)*sub
}

// SubdivisionCount returns how many pieces a section must be cut into so no
// piece exceeds minLength. Counts grow 1, 2, 4, 8, 12, ... matching the
// subdivision ladder used when meshing.
func SubdivisionCount(sectLength, minLength float64) int {
	n := 1
	for sectLength/float64(n) > minLength {
		switch {
		case n == 1:
			n = 2
		case n == 2:
			n = 4
		default:
			n += 4
		}
	}
	return n
}
