// edit/snapshot_test.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/trkworks/trked/math"
)

func TestSnapshotRoundTrip(t *testing.T) {
	tri := triangleLoop()

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, tri); err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	back, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if !reflect.DeepEqual(tri, back) {
		t.Errorf("round trip mismatch:\nin  %+v\nout %+v", tri, back)
	}
}

func TestDecodeSnapshotValidates(t *testing.T) {
	tri := triangleLoop()
	tri[1].Next = 99 // dangling link

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, tri); err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if _, err := DecodeSnapshot(&buf); err == nil {
		t.Error("invalid snapshot accepted")
	}
}

func TestCloneSections(t *testing.T) {
	src := []Section{quarterCircle()}
	dst := CloneSections(src)

	dst[0].Arc.Center = math.Point{99, 99}
	dst[0].Polyline[0] = math.Point{-1, -1}
	if src[0].Arc.Center == (math.Point{99, 99}) {
		t.Error("arc aliased between clones")
	}
	if src[0].Polyline[0] == (math.Point{-1, -1}) {
		t.Error("polyline aliased between clones")
	}
}
