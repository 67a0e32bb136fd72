// edit/derived.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	"encoding/binary"
	"hash/fnv"
	gomath "math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/trkworks/trked/math"
	"github.com/trkworks/trked/sg"
)

const (
	// World units between boundary posts and the drawn length of each post.
	postSpacing = 12 * 500
	postLength  = 2 * 500

	tessellationCacheSize = 512
)

// Post is one boundary post, a short segment perpendicular to the track.
type Post struct {
	Base, Tip math.Point
}

// Derived is everything computable from a section snapshot that viewers
// and pickers need: the flattened centerline, bounds, total length, and
// boundary post placement for both sides.
type Derived struct {
	Sections    []Section
	Centerline  []math.Point
	BoundsMin   math.Point
	BoundsMax   math.Point
	TrackLength float64
	LeftPosts   []Post
	RightPosts  []Post
}

// BuildSections converts decoded absolute-layout sections into editable
// snapshot sections with tessellated polylines and derived headings.
func BuildSections(f *sg.File) []Section {
	out := make([]Section, 0, len(f.Sections))
	for i := range f.Sections {
		src := &f.Sections[i]
		s := Section{
			ID:       SectionID(i),
			SourceID: SectionID(i),
			Prev:     SectionID(src.Prev),
			Next:     SectionID(src.Next),
			Start:    math.Point{float64(src.StartX), float64(src.StartY)},
			End:      math.Point{float64(src.EndX), float64(src.EndY)},
		}
		sang := math.Point{float64(src.SangCos), float64(src.SangSin)}
		eang := math.Point{float64(src.EangCos), float64(src.EangSin)}
		if !math.IsZero2(sang) {
			s.StartHeading = RoundHeading(math.Normalize2(sang))
		}
		if !math.IsZero2(eang) {
			s.EndHeading = RoundHeading(math.Normalize2(eang))
		}
		if sg.Kind(src.Kind) == sg.Curve {
			s.Kind = Curve
			s.Arc = &Arc{
				Center: math.Point{float64(src.CenterX), float64(src.CenterY)},
				Radius: float64(src.Radius),
			}
		} else {
			s.Kind = Straight
		}
		out = append(out, UpdateGeometry(s))
	}
	recomputeStartDLONG(out)
	return out
}

// BuildDerived computes the derived view of a snapshot.
func BuildDerived(sections []Section) *Derived {
	d := &Derived{
		Sections:    sections,
		TrackLength: TotalLength(sections),
	}
	d.Centerline = flattenCenterline(sections)
	d.BoundsMin, d.BoundsMax = bounds(d.Centerline)
	d.LeftPosts, d.RightPosts = boundaryPosts(d.Centerline)
	return d
}

// flattenCenterline concatenates section polylines, dropping the
// duplicated shared endpoint between consecutive sections.
func flattenCenterline(sections []Section) []math.Point {
	var out []math.Point
	for i := range sections {
		pl := sections[i].Polyline
		if len(pl) == 0 {
			continue
		}
		if len(out) > 0 && pointsClose(out[len(out)-1], pl[0]) {
			pl = pl[1:]
		}
		out = append(out, pl...)
	}
	return out
}

func bounds(pts []math.Point) (math.Point, math.Point) {
	if len(pts) == 0 {
		return math.Point{}, math.Point{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo[0] = gomath.Min(lo[0], p[0])
		lo[1] = gomath.Min(lo[1], p[1])
		hi[0] = gomath.Max(hi[0], p[0])
		hi[1] = gomath.Max(hi[1], p[1])
	}
	return lo, hi
}

// boundaryPosts walks the centerline and drops a post every postSpacing
// units on each side, carrying the leftover distance across polyline
// segments so spacing stays even through tessellated arcs.
func boundaryPosts(cline []math.Point) (left, right []Post) {
	if len(cline) < 2 {
		return nil, nil
	}
	carry := 0.0
	for i := 0; i+1 < len(cline); i++ {
		a, b := cline[i], cline[i+1]
		seg := math.Sub2(b, a)
		segLen := math.Length2(seg)
		if segLen <= 0 {
			continue
		}
		t := math.Scale2(seg, 1/segLen)
		leftN := math.Point{-t[1], t[0]}
		rightN := math.Point{t[1], -t[0]}

		dist := carry
		for dist < segLen {
			p := math.Add2(a, math.Scale2(t, dist))
			left = append(left, Post{Base: p, Tip: math.Add2(p, math.Scale2(leftN, postLength))})
			right = append(right, Post{Base: p, Tip: math.Add2(p, math.Scale2(rightN, postLength))})
			dist += postSpacing
		}
		carry = dist - segLen
	}
	return left, right
}

// Tessellator caches section polylines keyed by a geometry signature, so
// incremental edits only retessellate the sections that moved.
type Tessellator struct {
	cache *lru.Cache[uint64, []math.Point]
}

func NewTessellator() *Tessellator {
	c, err := lru.New[uint64, []math.Point](tessellationCacheSize)
	if err != nil {
		panic(err)
	}
	return &Tessellator{cache: c}
}

// Polyline returns the tessellated polyline for s, reusing a cached copy
// when the section's geometry is unchanged.
func (t *Tessellator) Polyline(s *Section) []math.Point {
	sig := sectionSignature(s)
	if pl, ok := t.cache.Get(sig); ok {
		return pl
	}
	pl := BuildPolyline(s)
	t.cache.Add(sig, pl)
	return pl
}

// sectionSignature is an FNV-1a hash of the fields that determine the
// section's polyline.
func sectionSignature(s *Section) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	w := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], gomath.Float64bits(v))
		h.Write(buf[:])
	}
	buf[0] = byte(s.Kind)
	h.Write(buf[:1])
	w(s.Start[0])
	w(s.Start[1])
	w(s.End[0])
	w(s.End[1])
	w(s.StartHeading[0])
	w(s.StartHeading[1])
	w(s.EndHeading[0])
	w(s.EndHeading[1])
	if s.Arc != nil {
		w(s.Arc.Center[0])
		w(s.Arc.Center[1])
		w(s.Arc.Radius)
	}
	return h.Sum64()
}
