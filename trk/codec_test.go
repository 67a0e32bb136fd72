// trk/codec_test.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trk

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

func testFile() *File {
	f := &File{
		Header: Header{
			Magic:        Magic,
			Version:      Version,
			TrackLength:  30000,
			NumLanes:     2,
			NumSections:  2,
			GroundBytes:  3 * 4 * 3,
			SectionBytes: 4 * (18 + 13),
		},
	}
	f.LaneDLAT[0] = -6000
	f.LaneDLAT[1] = 6000

	for i := 0; i < 4; i++ {
		f.Elevation = append(f.Elevation, ElevationRow{
			G1: int32(i), G2: int32(2 * i), G3: 0, G4: 100,
			G5: int32(3 * i), G6: int32(4 * i),
			Pos1: int32(1000 * i), Pos2: Sentinel,
		})
	}
	f.Ground = []GroundStrip{
		{StartDLAT: -6000, EndDLAT: 6000, Surface: 38},
		{StartDLAT: -9000, EndDLAT: -6000, Surface: 6},
		{StartDLAT: 6000, EndDLAT: 9000, Surface: 6},
	}
	f.Sections = []Section{
		{
			Kind: Straight, StartDLONG: 0, Length: 20000, Heading: 1 << 30,
			Straight:  &StraightGeom{A1: 1, A2: 2, A3: -(1 << 30), A4: 0, A5: 1 << 30},
			ElevIndex: 0, GroundCount: 3, GroundOffset: 0,
			Boundaries: []BoundaryStrip{
				{Wall: 4, StartDLAT: -9000, EndDLAT: 9000, Pad1: Sentinel, Pad2: Sentinel},
			},
		},
		{
			Kind: Curve, StartDLONG: 20000, Length: 10000, Heading: 1 << 29,
			Curve:      &CurveGeom{CenterX: 5000, CenterY: -5000, DeltaHeading: 1 << 28, Spare1: Sentinel, Spare2: Sentinel},
			ElevIndex:  2,
			Boundaries: []BoundaryStrip{},
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

	// Sentinel words must survive bit for bit.
	if g.Sections[1].Curve.Spare1 != Sentinel || g.Sections[1].Curve.Spare2 != Sentinel {
		t.Error("curve sentinel words not preserved")
	}
	if g.Sections[0].Boundaries[0].Pad1 != Sentinel {
		t.Error("boundary sentinel words not preserved")
	}
	if g.Elevation[0].Pos2 != Sentinel {
		t.Error("elevation sentinel words not preserved")
	}

	// Encoding again reproduces the same bytes.
	b2 := g.Encode()
	if !reflect.DeepEqual(b, b2) {
		t.Error("re-encode produced different bytes")
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
		{"odd size", good[:len(good)-2]},
		{"truncated", good[:16]},
		{"bad magic", corrupt(0, 0)},
		{"bad version", corrupt(1, 99)},
		{"bad lane count", corrupt(3, 11)},
		{"zero sections", corrupt(4, 0)},
		{"ragged ground bytes", corrupt(5, 10)},
		{"short file", good[:len(good)-8]},
		{"bad section type", corrupt(len(good)/4-31, 9)},
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
