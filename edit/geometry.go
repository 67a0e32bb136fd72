// edit/geometry.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	gomath "math"

	"github.com/trkworks/trked/math"
	"github.com/trkworks/trked/util"
)

const (
	// geomEps bounds the cross products and dot products treated as zero.
	geomEps = 1e-9

	// arcStepAngle is the maximum angle covered by one tessellation segment.
	arcStepAngle = gomath.Pi / 36

	// headingRound quantizes stored heading components so comparisons
	// survive round trips through file formats.
	headingRound = 1e5
)

// RoundHeading normalizes v to unit length and rounds each component to
// five decimals. Returns the zero vector for degenerate input.
func RoundHeading(v math.Point) math.Point {
	if math.IsZero2(v) {
		return math.Point{}
	}
	n := math.Normalize2(v)
	return math.Point{
		gomath.Round(n[0]*headingRound) / headingRound,
		gomath.Round(n[1]*headingRound) / headingRound,
	}
}

// curveTangent returns the unit tangent at the tip of vec for the given
// orientation (positive = counterclockwise). Zero vector input yields a
// zero tangent.
func curveTangent(vec math.Point, orientation float64) math.Point {
	mag := math.Length2(vec)
	if mag <= 0 {
		return math.Point{}
	}
	return math.Point{-orientation * vec[1] / mag, orientation * vec[0] / mag}
}

// SignedRadiusFromHeading gives radius the sign of the turn direction:
// positive when center sits to the left of heading at start. The magnitude
// is preserved; inputs too degenerate to decide leave radius unchanged.
func SignedRadiusFromHeading(heading math.Point, start, center math.Point, radius float64) float64 {
	if math.IsZero2(heading) || radius == 0 {
		return radius
	}
	cross := heading[0]*(center[1]-start[1]) - heading[1]*(center[0]-start[0])
	if gomath.Abs(cross) <= geomEps {
		return radius
	}
	if cross > 0 {
		return gomath.Abs(radius)
	}
	return -gomath.Abs(radius)
}

// BuildPolyline tessellates a section into a world-space polyline.
// Straights are their two endpoints. Curves walk the arc in the direction
// implied by the endpoint headings; when the headings disagree with the
// chord the arc direction is flipped, and a reflex span whose end tangent
// also opposes the chord collapses to the minor arc. The exact endpoints
// are reinstated after sampling.
func BuildPolyline(s *Section) []math.Point {
	if s.Kind != Curve || s.Arc == nil {
		return []math.Point{s.Start, s.End}
	}

	center := s.Arc.Center
	startVec := math.Sub2(s.Start, center)
	endVec := math.Sub2(s.End, center)

	radius := s.Arc.Radius
	if radius <= 0 {
		radius = math.Length2(startVec)
	}
	if radius <= 0 {
		return []math.Point{s.Start, s.End}
	}

	startAngle := headingRadiusAngle(s.StartHeading, startVec)
	endAngle := headingRadiusAngle(s.EndHeading, endVec)

	preferCCW, ok := headingPrefersCCW(startVec, s.StartHeading)
	if !ok {
		preferCCW, ok = headingPrefersCCW(endVec, s.EndHeading)
	}
	if !ok {
		cross := math.Cross2(math.Normalize2(startVec), math.Normalize2(endVec))
		preferCCW = gomath.Abs(cross) <= geomEps || cross > 0
	}

	chord := math.Sub2(s.End, s.Start)
	var chordDir math.Point
	hasChord := !math.IsZero2(chord)
	if hasChord {
		chordDir = math.Normalize2(chord)
		orient := util.Select(preferCCW, 1.0, -1.0)
		if t := curveTangent(startVec, orient); !math.IsZero2(t) && math.Dot(t, chordDir) < 0 {
			preferCCW = !preferCCW
		}
	}

	span := endAngle - startAngle
	if preferCCW {
		if span <= 0 {
			span += 2 * gomath.Pi
		}
	} else {
		if span >= 0 {
			span -= 2 * gomath.Pi
		}
	}

	if hasChord {
		orient := util.Select(preferCCW, 1.0, -1.0)
		if t := curveTangent(endVec, orient); !math.IsZero2(t) &&
			math.Dot(t, chordDir) < 0 && gomath.Abs(span) > gomath.Pi {
			span -= gomath.Copysign(2*gomath.Pi, span)
		}
	}

	total := gomath.Abs(span)
	if total < 1e-6 {
		return []math.Point{s.Start, s.End}
	}

	steps := int(total / arcStepAngle)
	if steps < 8 {
		steps = 8
	}
	pts := make([]math.Point, steps+1)
	for i := 0; i <= steps; i++ {
		angle := startAngle + span*float64(i)/float64(steps)
		pts[i] = math.Add2(center, math.Scale2(math.UnitFromAngle(angle), radius))
	}
	// Reinstate exact endpoints so downstream anchoring checks hold.
	pts[0] = s.Start
	pts[len(pts)-1] = s.End
	return pts
}

// headingRadiusAngle picks the radius angle (perpendicular to heading)
// closest to the actual radius vector. Falls back to the radius vector's
// own angle when the heading is unset.
func headingRadiusAngle(heading, radiusVec math.Point) float64 {
	if math.IsZero2(heading) {
		return math.Atan2Vec(radiusVec)
	}
	h := math.Normalize2(heading)
	base := math.Atan2Vec(h)
	a, b := base-gomath.Pi/2, base+gomath.Pi/2
	if math.IsZero2(radiusVec) {
		return a
	}
	ref := math.Normalize2(radiusVec)
	if math.Dot(math.UnitFromAngle(a), ref) >= math.Dot(math.UnitFromAngle(b), ref) {
		return a
	}
	return b
}

// headingPrefersCCW reports whether the heading at the tip of vec matches
// the counterclockwise tangent better than the clockwise one.
func headingPrefersCCW(vec, heading math.Point) (bool, bool) {
	if math.IsZero2(heading) || math.IsZero2(vec) {
		return false, false
	}
	h := math.Normalize2(heading)
	ccw := curveTangent(vec, 1)
	cw := curveTangent(vec, -1)
	d := math.Dot(ccw, h) - math.Dot(cw, h)
	if gomath.Abs(d) < geomEps {
		return false, false
	}
	return d > 0, true
}

// deriveHeadings returns the start and end headings for a polyline. When
// tangents are known (curves) they win; otherwise both ends take the
// direction of the straight chord.
func deriveHeadings(polyline []math.Point, start, end math.Point, haveTangents bool) (math.Point, math.Point) {
	if haveTangents {
		return RoundHeading(start), RoundHeading(end)
	}
	if len(polyline) < 2 {
		return math.Point{}, math.Point{}
	}
	d := math.Sub2(polyline[len(polyline)-1], polyline[0])
	h := RoundHeading(d)
	return h, h
}

// polylineLength sums the segment lengths of a polyline.
func polylineLength(pts []math.Point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += math.Distance2(pts[i-1], pts[i])
	}
	return total
}

// UpdateGeometry rebuilds the derived fields of a section (polyline,
// headings, and length) from its authoritative ones, returning the updated
// copy. Length is remeasured along the rebuilt polyline.
func UpdateGeometry(s Section) Section {
	if s.Kind == Curve && s.Arc != nil {
		s.StartHeading = RoundHeading(s.StartHeading)
		s.EndHeading = RoundHeading(s.EndHeading)
	}
	s.Polyline = BuildPolyline(&s)
	haveTangents := s.Kind == Curve && !math.IsZero2(s.StartHeading) && !math.IsZero2(s.EndHeading)
	s.StartHeading, s.EndHeading = deriveHeadings(s.Polyline, s.StartHeading, s.EndHeading, haveTangents)
	s.Length = polylineLength(s.Polyline)
	return s
}

// rebuildShape refreshes the polyline and length from the endpoints and arc
// without touching the headings. Solvers use it on candidates whose tangents
// must stay at full precision.
func rebuildShape(s Section) Section {
	s.Polyline = BuildPolyline(&s)
	s.Length = polylineLength(s.Polyline)
	return s
}

// CanonicalizeSection enforces the per-section invariants: curves carry an
// arc with positive radius magnitude, straights carry none, and the derived
// fields are rebuilt.
func CanonicalizeSection(s Section) Section {
	if s.Kind != Curve {
		s.Arc = nil
	} else if s.Arc != nil {
		if s.Arc.Radius == 0 {
			s.Arc.Radius = math.Distance2(s.Start, s.Arc.Center)
		}
		s.Arc.Radius = gomath.Abs(s.Arc.Radius)
	}
	return UpdateGeometry(s)
}

// projectAlongHeading projects target onto the ray through origin in the
// heading direction, unclamped.
func projectAlongHeading(origin, heading, target math.Point) (math.Point, bool) {
	if math.IsZero2(heading) {
		return math.Point{}, false
	}
	h := math.Normalize2(heading)
	t := math.Dot(math.Sub2(target, origin), h)
	return math.Add2(origin, math.Scale2(h, t)), true
}

// projectToSegment clamps the projection of p onto segment ab.
func projectToSegment(p, a, b math.Point) math.Point {
	ab := math.Sub2(b, a)
	den := math.Dot(ab, ab)
	if den <= 0 {
		return a
	}
	t := math.Clamp(math.Dot(math.Sub2(p, a), ab)/den, 0, 1)
	return math.Add2(a, math.Scale2(ab, t))
}

// pointsClose reports whether two points coincide within tolerance.
func pointsClose(a, b math.Point) bool {
	return math.Distance2(a, b) <= 1e-6
}

// straightChain reports whether b lies on the segment from a to c within
// tolerance, with a, b, c in travel order.
func straightChain(a, b, c math.Point) bool {
	const tol = 1e-6
	ab := math.Sub2(b, a)
	ac := math.Sub2(c, a)
	if gomath.Abs(math.Cross2(ab, ac)) > tol {
		return false
	}
	dot := math.Dot(ab, ac)
	if dot < -tol {
		return false
	}
	if dot-math.Dot(ac, ac) > tol {
		return false
	}
	return true
}
