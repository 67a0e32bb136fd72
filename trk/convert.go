// trk/convert.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trk

import (
	"fmt"
	gomath "math"

	"github.com/trkworks/trked/math"
	"github.com/trkworks/trked/sg"
)

// FromSG converts an absolute layout to the compact layout. Per-section
// lengths are recomputed from the centerline elevation profile so climbing
// sections come out longer than their planar length, and DLONGs are
// reaccumulated from those adjusted lengths.
func FromSG(src *sg.File) (*File, error) {
	numSects := len(src.Sections)
	numLanes := src.LaneCount()
	if numSects < 1 {
		return nil, fmt.Errorf("trk: no sections")
	}
	if numLanes < 1 || numLanes > LaneSlots {
		return nil, fmt.Errorf("trk: lane count %d outside 1..%d", numLanes, LaneSlots)
	}

	// Heading per section. Straights take the direction of their endpoints;
	// curves take the tangent at the start, which depends on the turn
	// direction around the center.
	headings := make([]int32, numSects)
	headingsRad := make([]float64, numSects)
	for i := range src.Sections {
		s := &src.Sections[i]
		switch s.Kind {
		case sg.Straight:
			r := gomath.Atan2(float64(s.EndY-s.StartY), float64(s.EndX-s.StartX))
			headingsRad[i] = r
			headings[i] = RadiansToHeading(r)
		case sg.Curve:
			sa := gomath.Atan2(float64(s.StartY-s.CenterY), float64(s.StartX-s.CenterX))
			ea := gomath.Atan2(float64(s.EndY-s.CenterY), float64(s.EndX-s.CenterX))
			r := sa + gomath.Pi/2
			if isClockwise(sa, ea) {
				r = sa - gomath.Pi/2
			}
			headingsRad[i] = r
			headings[i] = RadiansToHeading(r)
		default:
			return nil, fmt.Errorf("trk: section %d: type %d", i, s.Kind)
		}
	}

	f := &File{Sections: make([]Section, numSects)}
	copy(f.LaneDLAT[:], src.LaneDLAT)

	// Elevation rows: one cubic per section and lane, fit from the previous
	// section's end boundary to this section's.
	f.Elevation = make([]ElevationRow, 0, numSects*numLanes)
	for i := range src.Sections {
		s := &src.Sections[i]
		prev := &src.Sections[(i+numSects-1)%numSects]
		l := float64(s.Length)
		for x := 0; x < numLanes; x++ {
			c := FitBoundary(
				float64(prev.Lanes[x].Alt), float64(prev.Lanes[x].Grade)/GradeScale,
				float64(s.Lanes[x].Alt), float64(s.Lanes[x].Grade)/GradeScale, l)
			row := c.Row()
			row.G4 = prev.Lanes[x].Alt
			if s.Kind == sg.Curve {
				row.Pos1 = s.Radius - src.LaneDLAT[x]
				row.Pos2 = Sentinel
			} else {
				lat := math.Scale2(math.UnitFromAngle(headingsRad[i]+gomath.Pi/2), float64(src.LaneDLAT[x]))
				row.Pos1 = int32(gomath.Round(float64(s.StartX) + lat[0]))
				row.Pos2 = int32(gomath.Round(float64(s.StartY) + lat[1]))
			}
			f.Elevation = append(f.Elevation, row)
		}
	}

	// Ground strips, concatenated in section order.
	groundCounts := make([]int32, numSects)
	for i := range src.Sections {
		for _, st := range src.Sections[i].GroundStrips() {
			g, ok := SurfaceToGround(Surface(st.Type1))
			if !ok {
				return nil, fmt.Errorf("trk: section %d: ground strip type %d", i, st.Type1)
			}
			f.Ground = append(f.Ground, GroundStrip{StartDLAT: st.Start, EndDLAT: st.End, Surface: g})
			groundCounts[i]++
		}
	}

	// Adjusted lengths from the centerline elevation profile, interpolated
	// between the two lanes straddling DLAT 0.
	left, right := 0, 0
	for x := 0; x < numLanes-1; x++ {
		if src.LaneDLAT[x] < 0 && src.LaneDLAT[x+1] >= 0 {
			right, left = x, x+1
		}
	}
	rd := float64(src.LaneDLAT[right])
	pct := 0.0
	if span := float64(src.LaneDLAT[left]) - rd; span != 0 {
		pct = -rd / span
	}

	clineAlt := make([]float64, numSects)
	clineGrade := make([]float64, numSects)
	for i := range src.Sections {
		r, l := src.Sections[i].Lanes[right], src.Sections[i].Lanes[left]
		clineAlt[i] = float64(r.Alt) + pct*float64(l.Alt-r.Alt)
		clineGrade[i] = float64(r.Grade) + pct*float64(l.Grade-r.Grade)
	}

	adjLength := make([]int32, numSects)
	for i := range src.Sections {
		prev := (i + numSects - 1) % numSects
		c := FitBoundary(
			clineAlt[prev], clineGrade[prev]/GradeScale,
			clineAlt[i], clineGrade[i]/GradeScale,
			float64(src.Sections[i].Length))
		adjLength[i] = int32(gomath.Round(c.ArcLength(0)))
	}

	// Runs of consecutive straights share the heading of the first.
	for i := 1; i < numSects; i++ {
		if src.Sections[i].Kind == sg.Straight && src.Sections[i-1].Kind == sg.Straight {
			headings[i] = headings[i-1]
		}
	}

	var dlong, groundOff int32
	for i := range src.Sections {
		s := &src.Sections[i]
		out := &f.Sections[i]
		out.Kind = Kind(s.Kind)
		out.StartDLONG = dlong
		out.Length = adjLength[i]
		out.Heading = headings[i]
		out.ElevIndex = int32(i * numLanes)
		out.GroundCount = groundCounts[i]
		out.GroundOffset = groundOff

		if s.Kind == sg.Straight {
			out.Straight = straightGeom(headings[i], s.Length, adjLength[i])
		} else {
			next := (i + 1) % numSects
			out.Curve = &CurveGeom{
				CenterX:      s.CenterX,
				CenterY:      s.CenterY,
				DeltaHeading: HalfDeltaHeading(headings[i], headings[next]),
				Spare1:       Sentinel,
				Spare2:       Sentinel,
			}
		}

		for _, st := range s.BoundaryStrips() {
			out.Boundaries = append(out.Boundaries, BoundaryStrip{
				Wall:      StripTypesToWall(st.Type1, st.Type2),
				StartDLAT: st.Start,
				EndDLAT:   st.End,
				Pad1:      Sentinel,
				Pad2:      Sentinel,
			})
		}

		dlong += adjLength[i]
		groundOff += groundCounts[i]
	}

	var sectWords int32
	for i := range f.Sections {
		sectWords += sectionFixedWords + boundaryWords*int32(len(f.Sections[i].Boundaries))
	}
	f.Header = Header{
		Magic:        Magic,
		Version:      Version,
		TrackLength:  dlong,
		NumLanes:     int32(numLanes),
		NumSections:  int32(numSects),
		GroundBytes:  int32(len(f.Ground)) * groundStripWords * 4,
		SectionBytes: sectWords * 4,
	}
	return f, nil
}

// straightGeom packs the fixed-point direction words of a straight record.
// The fifth word encodes the planar/adjusted length ratio; the first two
// blend the direction with that ratio.
func straightGeom(heading, planar, adjusted int32) *StraightGeom {
	r := HeadingToRadians(heading)
	sin := -gomath.Sin(r)
	cos := gomath.Cos(r)
	const q = float64(1 << 30)

	a3 := q * sin
	a4 := q * cos
	a5 := q - 2*(q-float64(planar)/float64(adjusted)*q)
	a2 := -a3 - (-a3+sin*a5)/2
	a1 := a4 - (a4-cos*a5)/2

	return &StraightGeom{
		A1: int32(gomath.Round(a1)),
		A2: int32(gomath.Round(a2)),
		A3: int32(gomath.Round(a3)),
		A4: int32(gomath.Round(a4)),
		A5: int32(gomath.Round(a5)),
	}
}

func isClockwise(start, end float64) bool {
	diff := gomath.Mod(end-start, 2*gomath.Pi)
	if diff < 0 {
		diff += 2 * gomath.Pi
	}
	return diff > gomath.Pi
}

// ToSG converts a compact layout to the absolute layout. Endpoints are
// reconstructed from the centerline, altitudes are sampled at the end
// boundary of each section's cubic, and the next section's heading supplies
// the end tangent.
func (f *File) ToSG() *sg.File {
	numSects := len(f.Sections)
	numLanes := int(f.Header.NumLanes)
	cl := f.BuildCenterline()

	out := &sg.File{
		Unknown1: 1,
		Unknown2: 1,
		LaneDLAT: append([]int32(nil), f.LaneDLAT[:numLanes]...),
		Sections: make([]sg.Section, numSects),
	}

	for i := range f.Sections {
		s := &f.Sections[i]
		next := (i + 1) % numSects
		dst := &out.Sections[i]

		start := f.SectionStart(i, cl)
		end := f.SectionStart(next, cl)

		dst.Kind = sg.Kind(s.Kind)
		dst.Next = int32(next)
		dst.Prev = int32((i + numSects - 1) % numSects)
		dst.StartX = int32(gomath.Round(start[0]))
		dst.StartY = int32(gomath.Round(start[1]))
		dst.EndX = int32(gomath.Round(end[0]))
		dst.EndY = int32(gomath.Round(end[1]))
		dst.StartDLONG = s.StartDLONG
		dst.Length = s.Length

		if s.Kind == Curve {
			dst.CenterX = s.Curve.CenterX
			dst.CenterY = s.Curve.CenterY
			dst.Radius = int32(gomath.Round(cl[i][0]))
		}

		dst.SangCos, dst.SangSin = sg.PackCosSin(HeadingToRadians(s.Heading))
		dst.EangCos, dst.EangSin = sg.PackCosSin(HeadingToRadians(f.Sections[next].Heading))

		dst.Lanes = make([]sg.Lane, numLanes)
		for x := 0; x < numLanes; x++ {
			c := f.ElevationRow(i, x).Cubic(float64(s.Length))
			dst.Lanes[x] = sg.Lane{
				Alt:   int32(gomath.Round(c.EndAltitude())),
				Grade: int32(gomath.Round(c.EndSlope() * GradeScale)),
			}
		}

		for _, g := range f.SectionGround(i) {
			dst.Strips = append(dst.Strips, sg.Strip{
				Type1: int32(GroundToSurface(g.Surface)),
				Start: g.StartDLAT,
				End:   g.EndDLAT,
			})
		}
		for _, b := range s.Boundaries {
			t1, t2 := WallToStripTypes(b.Wall)
			dst.Strips = append(dst.Strips, sg.Strip{
				Type1: t1, Type2: t2, Start: b.StartDLAT, End: b.EndDLAT,
			})
		}
		if len(dst.Strips) > 10 {
			dst.Strips = dst.Strips[:10]
		}
	}
	return out
}
