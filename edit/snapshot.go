// edit/snapshot.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	"fmt"
	"io"

	"github.com/brunoga/deep"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// CloneSections returns a deep copy of the snapshot, including arcs and
// polylines, so undo stacks never alias live state.
func CloneSections(sections []Section) []Section {
	out, err := deep.Copy(sections)
	if err != nil {
		// Section contains no unexported or uncopyable fields.
		panic(err)
	}
	return out
}

// The snapshot format is a msgpack-encoded section slice, compressed with
// zstd.

// EncodeSnapshot serializes a snapshot to w.
func EncodeSnapshot(w io.Writer, sections []Section) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(sections); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

// DecodeSnapshot deserializes a snapshot written by EncodeSnapshot and
// validates its invariants before returning it.
func DecodeSnapshot(r io.Reader) ([]Section, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var sections []Section
	if err := msgpack.NewDecoder(zr).Decode(&sections); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := ValidateSections(sections); err != nil {
		return nil, err
	}
	return sections, nil
}
