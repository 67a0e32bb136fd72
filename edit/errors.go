// edit/errors.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import "errors"

var (
	// ErrNotClosed is returned by loop-level operations that require the
	// sections to form exactly one closed loop.
	ErrNotClosed = errors.New("track must be a closed loop")

	// ErrBadTopology is returned when neighbor links do not describe a
	// single simple loop.
	ErrBadTopology = errors.New("invalid loop topology")

	// ErrNoSolution is returned by geometry solvers when no candidate
	// satisfies the tolerances.
	ErrNoSolution = errors.New("no geometric solution")

	// ErrSplitTooClose rejects split points within the guard band of a
	// section endpoint.
	ErrSplitTooClose = errors.New("split point too close to a section end")

	// ErrBadIndex is returned for operations addressing a section or node
	// outside the snapshot.
	ErrBadIndex = errors.New("section index out of range")
)
