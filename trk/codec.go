// trk/codec.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trk

import (
	"encoding/binary"
	"fmt"
)

// ParseError describes a structural problem found while decoding a compact
// track file: bad magic/version, an offset pointing outside the buffer, or
// declared counts that don't match the buffer length.
type ParseError struct {
	Offset int // byte offset of the problem, when meaningful
	Reason string
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("trk: offset %d: %s", e.Offset, e.Reason)
	}
	return "trk: " + e.Reason
}

func parseErrorf(offset int, format string, args ...any) error {
	return &ParseError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// Decode parses a compact-format track file. The returned File is fully
// independent of b.
func Decode(b []byte) (*File, error) {
	if len(b)%4 != 0 {
		return nil, parseErrorf(0, "file size %d is not a multiple of 4", len(b))
	}
	w := make([]int32, len(b)/4)
	for i := range w {
		w[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}

	if len(w) < headerWords+LaneSlots {
		return nil, parseErrorf(0, "truncated header: %d words", len(w))
	}

	f := &File{
		Header: Header{
			Magic:        w[0],
			Version:      w[1],
			TrackLength:  w[2],
			NumLanes:     w[3],
			NumSections:  w[4],
			GroundBytes:  w[5],
			SectionBytes: w[6],
		},
	}
	h := &f.Header
	if h.Magic != Magic {
		return nil, parseErrorf(0, "bad magic %#x", uint32(h.Magic))
	}
	if h.Version != Version {
		return nil, parseErrorf(4, "unsupported version %d", h.Version)
	}
	if h.NumLanes < 1 || h.NumLanes > LaneSlots {
		return nil, parseErrorf(12, "lane count %d outside 1..%d", h.NumLanes, LaneSlots)
	}
	if h.NumSections < 1 {
		return nil, parseErrorf(16, "section count %d", h.NumSections)
	}
	if h.GroundBytes < 0 || h.GroundBytes%(4*groundStripWords) != 0 {
		return nil, parseErrorf(20, "ground table byte size %d is not a multiple of %d",
			h.GroundBytes, 4*groundStripWords)
	}
	if h.SectionBytes < 0 || h.SectionBytes%4 != 0 {
		return nil, parseErrorf(24, "section table byte size %d is not a multiple of 4", h.SectionBytes)
	}

	copy(f.LaneDLAT[:], w[headerWords:headerWords+LaneSlots])

	nSect, nLane := int(h.NumSections), int(h.NumLanes)
	offBase := headerWords + LaneSlots
	elevBase := offBase + nSect
	groundBase := elevBase + nSect*nLane*elevRowWords
	sectBase := groundBase + int(h.GroundBytes)/4
	want := sectBase + int(h.SectionBytes)/4
	if want != len(w) {
		return nil, parseErrorf(0, "declared counts need %d words but file has %d", want, len(w))
	}

	// Per-section byte offsets into the section table.
	offsets := make([]int, nSect+1)
	for i := 0; i < nSect; i++ {
		off := w[offBase+i]
		if off < 0 || off%4 != 0 || int(off) > int(h.SectionBytes) {
			return nil, parseErrorf(4*(offBase+i), "section offset %d outside table of %d bytes",
				off, h.SectionBytes)
		}
		offsets[i] = int(off) / 4
	}
	offsets[nSect] = int(h.SectionBytes) / 4

	f.Elevation = make([]ElevationRow, nSect*nLane)
	for i := range f.Elevation {
		r := w[elevBase+i*elevRowWords:]
		f.Elevation[i] = ElevationRow{
			G1: r[0], G2: r[1], G3: r[2], G4: r[3],
			G5: r[4], G6: r[5],
			Pos1: r[6], Pos2: r[7],
		}
	}

	f.Ground = make([]GroundStrip, int(h.GroundBytes)/(4*groundStripWords))
	for i := range f.Ground {
		r := w[groundBase+i*groundStripWords:]
		f.Ground[i] = GroundStrip{StartDLAT: r[0], EndDLAT: r[1], Surface: r[2]}
	}

	f.Sections = make([]Section, nSect)
	for i := 0; i < nSect; i++ {
		start, end := offsets[i], offsets[i+1]
		byteOff := 4 * (sectBase + start)
		if end < start || end-start < sectionFixedWords {
			return nil, parseErrorf(byteOff, "section %d record of %d words is too short", i, end-start)
		}
		sect, err := decodeSection(w[sectBase+start:sectBase+end], i, byteOff)
		if err != nil {
			return nil, err
		}
		if eb := int(sect.ElevIndex) + nLane; sect.ElevIndex < 0 || eb > len(f.Elevation) {
			return nil, parseErrorf(byteOff, "section %d elevation index %d outside table", i, sect.ElevIndex)
		}
		if gb := int(sect.GroundOffset) + int(sect.GroundCount); sect.GroundOffset < 0 ||
			sect.GroundCount < 0 || gb > len(f.Ground) {
			return nil, parseErrorf(byteOff, "section %d ground strips %d+%d outside table of %d",
				i, sect.GroundOffset, sect.GroundCount, len(f.Ground))
		}
		f.Sections[i] = sect
	}

	return f, nil
}

func decodeSection(r []int32, idx, byteOff int) (Section, error) {
	s := Section{
		Kind:         Kind(r[0]),
		StartDLONG:   r[1],
		Length:       r[2],
		Heading:      r[3],
		ElevIndex:    r[9],
		GroundCount:  r[10],
		GroundOffset: r[11],
	}

	switch s.Kind {
	case Straight:
		s.Straight = &StraightGeom{A1: r[4], A2: r[5], A3: r[6], A4: r[7], A5: r[8]}
	case Curve:
		s.Curve = &CurveGeom{CenterX: r[4], CenterY: r[5], DeltaHeading: r[6], Spare1: r[7], Spare2: r[8]}
	default:
		return Section{}, parseErrorf(byteOff, "section %d has invalid type %d", idx, r[0])
	}

	nb := int(r[12])
	if nb < 0 || sectionFixedWords+boundaryWords*nb != len(r) {
		return Section{}, parseErrorf(byteOff, "section %d declares %d boundaries in a %d word record",
			idx, nb, len(r))
	}
	s.Boundaries = make([]BoundaryStrip, nb)
	for j := 0; j < nb; j++ {
		b := r[sectionFixedWords+boundaryWords*j:]
		s.Boundaries[j] = BoundaryStrip{Wall: b[0], StartDLAT: b[1], EndDLAT: b[2], Pad1: b[3], Pad2: b[4]}
	}
	return s, nil
}

// Encode serializes f back to the on-disk layout. Byte offsets and the
// ground/section table sizes in the header are recomputed from the current
// record sizes; everything else, sentinels included, is written bit for bit.
// Encode never fails on a File whose counts are internally consistent.
func (f *File) Encode() []byte {
	nSect, nLane := len(f.Sections), int(f.Header.NumLanes)

	sectionWords := 0
	for i := range f.Sections {
		sectionWords += f.Sections[i].sectionWords()
	}
	groundBytes := int32(4 * groundStripWords * len(f.Ground))
	sectionBytes := int32(4 * sectionWords)

	total := headerWords + LaneSlots + nSect + nSect*nLane*elevRowWords +
		int(groundBytes)/4 + sectionWords
	w := make([]int32, 0, total)

	w = append(w, f.Header.Magic, f.Header.Version, f.Header.TrackLength,
		f.Header.NumLanes, int32(nSect), groundBytes, sectionBytes)
	w = append(w, f.LaneDLAT[:]...)

	off := int32(0)
	for i := range f.Sections {
		w = append(w, 4*off)
		off += int32(f.Sections[i].sectionWords())
	}

	for i := range f.Elevation {
		r := &f.Elevation[i]
		w = append(w, r.G1, r.G2, r.G3, r.G4, r.G5, r.G6, r.Pos1, r.Pos2)
	}
	for i := range f.Ground {
		g := &f.Ground[i]
		w = append(w, g.StartDLAT, g.EndDLAT, g.Surface)
	}

	for i := range f.Sections {
		s := &f.Sections[i]
		w = append(w, int32(s.Kind), s.StartDLONG, s.Length, s.Heading)
		switch s.Kind {
		case Straight:
			w = append(w, s.Straight.A1, s.Straight.A2, s.Straight.A3, s.Straight.A4, s.Straight.A5)
		case Curve:
			w = append(w, s.Curve.CenterX, s.Curve.CenterY, s.Curve.DeltaHeading,
				s.Curve.Spare1, s.Curve.Spare2)
		}
		w = append(w, s.ElevIndex, s.GroundCount, s.GroundOffset, int32(len(s.Boundaries)))
		for j := range s.Boundaries {
			b := &s.Boundaries[j]
			w = append(w, b.Wall, b.StartDLAT, b.EndDLAT, b.Pad1, b.Pad2)
		}
	}

	b := make([]byte, 4*len(w))
	for i, v := range w {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	}
	return b
}
