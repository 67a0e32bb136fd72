// sg/codec_test.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sg

import (
	"encoding/binary"
	"errors"
	gomath "math"
	"reflect"
	"testing"
)

func testFile() *File {
	f := &File{
		Unknown1: 1,
		Unknown2: 1,
		LaneDLAT: []int32{-6000, 6000},
	}
	c, s := PackCosSin(gomath.Pi / 2)
	f.Sections = []Section{
		{
			Kind: Straight, Next: 1, Prev: 1,
			StartX: 0, StartY: 0, EndX: 0, EndY: 20000,
			StartDLONG: 0, Length: 20000,
			SangCos: c, SangSin: s, EangCos: c, EangSin: s,
			Lanes: []Lane{{Alt: 100, Grade: 0}, {Alt: 100, Grade: 0}},
			Strips: []Strip{
				{Type1: 5, Type2: 0, Start: -6000, End: 6000},
				{Type1: 7, Type2: 2, Start: -9000, End: -9000},
			},
		},
		{
			Kind: Curve, Next: 0, Prev: 0,
			StartX: 0, StartY: 20000, EndX: 0, EndY: 0,
			StartDLONG: 20000, Length: 31416,
			CenterX: 0, CenterY: 10000, Radius: -10000,
			SangCos: c, SangSin: s, EangCos: c, EangSin: s,
			Lanes:  []Lane{{Alt: 100}, {Alt: 100}},
			Strips: []Strip{{Type1: 5, Start: -6000, End: 6000}},
		},
	}
	return f
}

func TestCodecRoundTrip(t *testing.T) {
	f := testFile()
	b := f.Encode()
	g, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(f, g) {
		t.Errorf("round trip mismatch:\nencoded %+v\ndecoded %+v", f, g)
	}
	if !reflect.DeepEqual(b, g.Encode()) {
		t.Error("re-encode produced different bytes")
	}
}

func TestStripPartition(t *testing.T) {
	s := &testFile().Sections[0]
	if g := s.GroundStrips(); len(g) != 1 || g[0].Type1 != 5 {
		t.Errorf("GroundStrips: got %+v", g)
	}
	if w := s.BoundaryStrips(); len(w) != 1 || w[0].Type1 != 7 {
		t.Errorf("BoundaryStrips: got %+v", w)
	}
}

func TestCosSinPacking(t *testing.T) {
	for _, r := range []float64{0, gomath.Pi / 2, -gomath.Pi / 3, 2.5} {
		c, s := PackCosSin(r)
		back := UnpackCosSin(c, s)
		if gomath.Abs(gomath.Atan2(gomath.Sin(r), gomath.Cos(r))-back) > 1e-4 {
			t.Errorf("angle %v: round trip gave %v", r, back)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	good := testFile().Encode()

	corrupt := func(wordIdx int, v int32) []byte {
		b := append([]byte(nil), good...)
		binary.LittleEndian.PutUint32(b[4*wordIdx:], uint32(v))
		return b
	}

	cases := []struct {
		name string
		b    []byte
	}{
		{"odd size", good[:len(good)-1]},
		{"bad magic", corrupt(0, 42)},
		{"zero sections", corrupt(4, 0)},
		{"bad lane count", corrupt(5, 999)},
		{"short file", good[:len(good)-4]},
		{"bad section type", corrupt(8, 3)},
	}
	for _, c := range cases {
		_, err := Decode(c.b)
		if err == nil {
			t.Errorf("%s: decode succeeded", c.name)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: error %v is not a ParseError", c.name, err)
		}
	}
}
