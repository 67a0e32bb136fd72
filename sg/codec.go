// sg/codec.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sg

import (
	"encoding/binary"
	"fmt"
)

// ParseError reports a structural problem in an absolute-layout file,
// located by word offset.
type ParseError struct {
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sg: word %d: %s", e.Offset, e.Reason)
}

func parseErrorf(off int, format string, args ...interface{}) error {
	return &ParseError{Offset: off, Reason: fmt.Sprintf(format, args...)}
}

// Decode parses an absolute-layout file from its raw bytes.
func Decode(b []byte) (*File, error) {
	if len(b)%4 != 0 {
		return nil, parseErrorf(0, "size %d is not a whole number of words", len(b))
	}
	w := make([]int32, len(b)/4)
	for i := range w {
		w[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}

	if len(w) < headerWords {
		return nil, parseErrorf(0, "truncated header: %d words", len(w))
	}
	if w[0] != Magic {
		return nil, parseErrorf(0, "bad magic %#x", uint32(w[0]))
	}
	numSects := int(w[4])
	numLanes := int(w[5])
	if numSects < 1 {
		return nil, parseErrorf(4, "section count %d", numSects)
	}
	if numLanes < 1 || numLanes > stripSlots {
		return nil, parseErrorf(5, "lane count %d outside 1..%d", numLanes, stripSlots)
	}

	recWords := fixedWords + 2*numLanes + 1 + stripSlots*stripWords
	want := headerWords + numLanes + numSects*recWords
	if len(w) != want {
		return nil, parseErrorf(len(w), "have %d words, layout needs %d", len(w), want)
	}

	f := &File{
		Unknown1: w[1],
		Unknown2: w[2],
		Unknown3: w[3],
		LaneDLAT: append([]int32(nil), w[headerWords:headerWords+numLanes]...),
		Sections: make([]Section, numSects),
	}

	base := headerWords + numLanes
	for i := 0; i < numSects; i++ {
		off := base + i*recWords
		if err := decodeSection(&f.Sections[i], w[off:off+recWords], numLanes, off); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func decodeSection(s *Section, w []int32, numLanes, off int) error {
	kind := Kind(w[0])
	if kind != Straight && kind != Curve {
		return parseErrorf(off, "section type %d", w[0])
	}
	s.Kind = kind
	s.Next = w[1]
	s.Prev = w[2]
	s.StartX = w[3]
	s.StartY = w[4]
	s.EndX = w[5]
	s.EndY = w[6]
	s.StartDLONG = w[7]
	s.Length = w[8]
	s.CenterX = w[9]
	s.CenterY = w[10]
	s.SangCos = w[11]
	s.SangSin = w[12]
	s.EangCos = w[13]
	s.EangSin = w[14]
	s.Radius = w[15]
	s.Reserved = w[16]

	s.Lanes = make([]Lane, numLanes)
	for i := 0; i < numLanes; i++ {
		s.Lanes[i] = Lane{Alt: w[fixedWords+2*i], Grade: w[fixedWords+2*i+1]}
	}

	stripBase := fixedWords + 2*numLanes
	n := int(w[stripBase])
	if n < 0 || n > stripSlots {
		return parseErrorf(off+stripBase, "strip count %d outside 0..%d", n, stripSlots)
	}
	s.Strips = make([]Strip, n)
	for i := 0; i < n; i++ {
		p := stripBase + 1 + i*stripWords
		s.Strips[i] = Strip{Type1: w[p], Type2: w[p+1], Start: w[p+2], End: w[p+3]}
	}
	return nil
}

// Encode serializes the file. Unused strip slots are zero-padded so every
// record is the same size.
func (f *File) Encode() []byte {
	numLanes := len(f.LaneDLAT)
	recWords := fixedWords + 2*numLanes + 1 + stripSlots*stripWords

	w := make([]int32, 0, headerWords+numLanes+len(f.Sections)*recWords)
	w = append(w, Magic, f.Unknown1, f.Unknown2, f.Unknown3,
		int32(len(f.Sections)), int32(numLanes))
	w = append(w, f.LaneDLAT...)

	for i := range f.Sections {
		s := &f.Sections[i]
		w = append(w, int32(s.Kind), s.Next, s.Prev,
			s.StartX, s.StartY, s.EndX, s.EndY,
			s.StartDLONG, s.Length,
			s.CenterX, s.CenterY,
			s.SangCos, s.SangSin, s.EangCos, s.EangSin,
			s.Radius, s.Reserved)
		for j := 0; j < numLanes; j++ {
			var ln Lane
			if j < len(s.Lanes) {
				ln = s.Lanes[j]
			}
			w = append(w, ln.Alt, ln.Grade)
		}
		w = append(w, int32(len(s.Strips)))
		for j := 0; j < stripSlots; j++ {
			var st Strip
			if j < len(s.Strips) {
				st = s.Strips[j]
			}
			w = append(w, st.Type1, st.Type2, st.Start, st.End)
		}
	}

	b := make([]byte, 4*len(w))
	for i, v := range w {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	}
	return b
}
