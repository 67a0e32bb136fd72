// edit/engine.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package edit

import (
	gomath "math"

	"github.com/trkworks/trked/log"
	"github.com/trkworks/trked/math"
)

// Engine applies editing operations to section snapshots. Every method
// treats its input slice as immutable and returns a fresh snapshot, so a
// caller can keep old snapshots for undo.
type Engine struct {
	lg  *log.Logger
	cfg Config
}

func NewEngine(cfg Config, lg *log.Logger) *Engine {
	return &Engine{lg: lg, cfg: cfg}
}

// Minimum world distance a shared straight node keeps from either far
// endpoint during a constrained drag.
const sharedStraightMargin = 50.0

// cloneSnapshot deep-copies a snapshot slice.
func cloneSnapshot(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i := range sections {
		out[i] = sections[i].clone()
	}
	return out
}

func setLink(s *Section, e Endpoint, id SectionID) {
	if e == StartNode {
		s.Prev = id
	} else {
		s.Next = id
	}
}

func link(s *Section, e Endpoint) SectionID {
	if e == StartNode {
		return s.Prev
	}
	return s.Next
}

// ConnectNodes links two free endpoints without moving any geometry. Both
// endpoints must be disconnected.
func (e *Engine) ConnectNodes(sections []Section, a, b NodeRef) ([]Section, error) {
	n := len(sections)
	if !a.Section.Valid(n) || !b.Section.Valid(n) || a.Section == b.Section {
		return nil, ErrBadIndex
	}
	if !sections[a.Section].IsDisconnected(sections, a.End) ||
		!sections[b.Section].IsDisconnected(sections, b.End) {
		return nil, ErrBadTopology
	}

	out := cloneSnapshot(sections)
	setLink(&out[a.Section], a.End, b.Section)
	setLink(&out[b.Section], b.End, a.Section)
	recomputeStartDLONG(out)
	return e.applyClosureTransition(sections, out)
}

// DisconnectNode clears the link at ref and the matching back link.
func (e *Engine) DisconnectNode(sections []Section, ref NodeRef) ([]Section, error) {
	n := len(sections)
	if !ref.Section.Valid(n) {
		return nil, ErrBadIndex
	}
	out := cloneSnapshot(sections)
	other := link(&out[ref.Section], ref.End)
	setLink(&out[ref.Section], ref.End, None)
	if other.Valid(n) {
		node := out[ref.Section].Node(ref.End)
		o := &out[other]
		switch {
		case o.Prev == ref.Section && (o.Next != ref.Section || pointsClose(o.Start, node)):
			o.Prev = None
		case o.Next == ref.Section:
			o.Next = None
		}
	}
	recomputeStartDLONG(out)
	return out, nil
}

// SolveConnection moves geometry so the dragged endpoint can join the
// target endpoint with a continuous tangent, then links them. The reason
// string is non-empty when the solve fails.
func (e *Engine) SolveConnection(sections []Section, dragged, target NodeRef) ([]Section, string, error) {
	n := len(sections)
	if !dragged.Section.Valid(n) || !target.Section.Valid(n) || dragged.Section == target.Section {
		return nil, "", ErrBadIndex
	}
	ds := &sections[dragged.Section]
	ts := &sections[target.Section]

	var newDragged, newTarget *Section
	reason := ""
	switch {
	case ds.Kind == Curve && ts.Kind == Straight:
		if dragged.End == EndNode && target.End == StartNode {
			newDragged, newTarget = SolveCurveEndToStraightStart(ds, ts, e.cfg.headingTolDeg())
			if newDragged == nil {
				reason = "no tangent-continuous join found along the straight"
			}
		} else {
			newTarget, newDragged = SolveStraightEndToCurveEndpoint(ts, target.End, ds, dragged.End, e.cfg.minStraightLength())
			if newDragged == nil {
				reason = "straight cannot reach the curve endpoint"
			}
		}
	case ds.Kind == Straight && ts.Kind == Curve:
		newDragged, newTarget = SolveStraightEndToCurveEndpoint(ds, dragged.End, ts, target.End, e.cfg.minStraightLength())
		if newDragged == nil {
			reason = "straight cannot reach the curve endpoint"
		}
	case ds.Kind == Straight && ts.Kind == Straight:
		newDragged, newTarget = solveStraightToStraight(sections, ds, dragged.End, ts, target.End)
		if newDragged == nil {
			reason = "straights must share a heading and lie on one line"
		}
	default:
		reason = "unsupported section pairing"
	}

	if newDragged == nil || newTarget == nil {
		if e.cfg.DebugCurveRender && e.lg != nil {
			e.lg.Debugf("connection solve failed: %s", reason)
		}
		return nil, reason, ErrNoSolution
	}

	out := cloneSnapshot(sections)
	out[dragged.Section] = *newDragged
	out[dragged.Section].ID = dragged.Section
	out[target.Section] = *newTarget
	out[target.Section].ID = target.Section
	setLink(&out[dragged.Section], dragged.End, target.Section)
	setLink(&out[target.Section], target.End, dragged.Section)
	recomputeStartDLONG(out)

	out, err := e.applyClosureTransition(sections, out)
	return out, "", err
}

// DragNode moves the node at ref to pos, refitting the affected sections.
// A node shared by two sections is dragged under the pair's constraint; a
// lone endpoint refits its own section.
func (e *Engine) DragNode(sections []Section, ref NodeRef, pos math.Point) ([]Section, error) {
	n := len(sections)
	if !ref.Section.Valid(n) {
		return nil, ErrBadIndex
	}
	s := &sections[ref.Section]

	if other := link(s, ref.End); other.Valid(n) {
		return e.dragSharedNode(sections, ref, other, pos)
	}
	return e.dragLoneNode(sections, ref, pos)
}

// dragSharedNode moves a node joining ref's section to its neighbor.
func (e *Engine) dragSharedNode(sections []Section, ref NodeRef, other SectionID, pos math.Point) ([]Section, error) {
	s := &sections[ref.Section]
	o := &sections[other]

	// Identify the neighbor's endpoint that sits on this node.
	otherRefEnd := StartNode
	if link(o, EndNode) == ref.Section && pointsClose(o.End, s.Node(ref.End)) {
		otherRefEnd = EndNode
	}

	if s.Kind == Straight && o.Kind == Straight {
		if ns, no, ok := dragSharedStraightNode(s, ref.End, o, otherRefEnd, pos); ok {
			return e.installPair(sections, ref.Section, ns, other, no)
		}
	}
	if s.Kind == Curve && o.Kind == Curve {
		if ns, no, ok := dragSharedCurveNode(s, ref.End, o, otherRefEnd, pos); ok {
			return e.installPair(sections, ref.Section, ns, other, no)
		}
	}

	// Mixed pair: refit each side independently against the new node.
	ns := e.refitSectionEndpoint(s, ref.End, pos)
	no := e.refitSectionEndpoint(o, otherRefEnd, pos)
	if ns == nil || no == nil {
		return nil, ErrNoSolution
	}
	return e.installPair(sections, ref.Section, ns, other, no)
}

// dragSharedStraightNode slides the joint between two straights along the
// line through their far endpoints, clamped so neither straight collapses.
func dragSharedStraightNode(s *Section, sEnd Endpoint, o *Section, oEnd Endpoint, pos math.Point) (*Section, *Section, bool) {
	a := s.Node(otherEnd(sEnd))
	c := o.Node(otherEnd(oEnd))
	total := math.Distance2(a, c)
	if total <= 2*sharedStraightMargin {
		return nil, nil, false
	}
	ac := math.Sub2(c, a)
	t := math.Dot(math.Sub2(pos, a), ac) / math.Dot(ac, ac)
	t = math.Clamp(t, sharedStraightMargin/total, 1-sharedStraightMargin/total)
	joint := math.Add2(a, math.Scale2(ac, t))

	ns := s.clone()
	if sEnd == StartNode {
		ns.Start = joint
	} else {
		ns.End = joint
	}
	no := o.clone()
	if oEnd == StartNode {
		no.Start = joint
	} else {
		no.End = joint
	}

	rs := UpdateGeometry(ns)
	ro := UpdateGeometry(no)
	return &rs, &ro, true
}

// dragSharedCurveNode rotates the joint between two concentric arcs around
// their shared center, clamped to keep a sliver of either arc.
func dragSharedCurveNode(s *Section, sEnd Endpoint, o *Section, oEnd Endpoint, pos math.Point) (*Section, *Section, bool) {
	if s.Arc == nil || o.Arc == nil {
		return nil, nil, false
	}
	if !pointsClose(s.Arc.Center, o.Arc.Center) {
		return nil, nil, false
	}
	radius := gomath.Abs(s.Arc.Radius)
	if gomath.Abs(radius-gomath.Abs(o.Arc.Radius)) > 1e-6 {
		return nil, nil, false
	}
	orient := curveOrientation(s)
	if orient != curveOrientation(o) {
		return nil, nil, false
	}

	center := s.Arc.Center
	// Far endpoints bound the combined sweep.
	farS := s.Node(otherEnd(sEnd))
	farO := o.Node(otherEnd(oEnd))
	va := math.Sub2(farS, center)
	vc := math.Sub2(farO, center)
	vp := math.Sub2(pos, center)
	if math.IsZero2(vp) {
		return nil, nil, false
	}

	// Travel from s's far endpoint toward o's far endpoint. When s is
	// entered from its end node the sweep runs against the arc direction.
	sweepOrient := orient
	if sEnd == StartNode {
		sweepOrient = -orient
	}
	total := directedSweep(va, vc, sweepOrient)
	frac := directedSweep(va, vp, sweepOrient) / total
	frac = math.Clamp(frac, minSplitFraction, 1-minSplitFraction)

	angleA := math.Atan2Vec(va)
	joint := math.Add2(center, math.Scale2(math.UnitFromAngle(angleA+sweepOrient*frac*total), radius))
	radial := math.Normalize2(math.Sub2(joint, center))

	ns := s.clone()
	no := o.clone()
	if sEnd == StartNode {
		ns.Start = joint
		ns.StartHeading = RoundHeading(curveTangent(radial, orient))
	} else {
		ns.End = joint
		ns.EndHeading = RoundHeading(curveTangent(radial, orient))
	}
	if oEnd == StartNode {
		no.Start = joint
		no.StartHeading = RoundHeading(curveTangent(radial, orient))
	} else {
		no.End = joint
		no.EndHeading = RoundHeading(curveTangent(radial, orient))
	}

	rs := UpdateGeometry(ns)
	ro := UpdateGeometry(no)
	return &rs, &ro, true
}

// dragLoneNode refits a single section whose dragged endpoint is free.
// When the opposite endpoint is connected and the section is straight, the
// drag is constrained along the section's axis so the joint stays put.
func (e *Engine) dragLoneNode(sections []Section, ref NodeRef, pos math.Point) ([]Section, error) {
	s := &sections[ref.Section]

	target := pos
	if s.Kind == Straight && !s.IsDisconnected(sections, otherEnd(ref.End)) {
		anchor := s.Node(otherEnd(ref.End))
		if h := s.Heading(otherEnd(ref.End)); !math.IsZero2(h) {
			if p, ok := projectAlongHeading(anchor, h, pos); ok {
				target = p
			}
		}
	}

	ns := e.refitSectionEndpoint(s, ref.End, target)
	if ns == nil {
		return nil, ErrNoSolution
	}
	out := cloneSnapshot(sections)
	out[ref.Section] = *ns
	out[ref.Section].ID = ref.Section
	recomputeStartDLONG(out)
	return out, nil
}

// refitSectionEndpoint rebuilds a section with one endpoint moved.
func (e *Engine) refitSectionEndpoint(s *Section, end Endpoint, pos math.Point) *Section {
	start, endPt := s.Start, s.End
	if end == StartNode {
		start = pos
	} else {
		endPt = pos
	}
	if s.Kind == Curve {
		solved := SolveCurveDrag(s, start, endPt, e.cfg.curveDragTolerance())
		if solved == nil && e.cfg.DebugCurveRender && e.lg != nil {
			e.lg.Debugf("curve drag solve failed: section %d end %s", s.ID, end)
		}
		return solved
	}
	return updateStraightEndpoints(s, start, endPt)
}

// installPair writes two solved sections into a fresh snapshot.
func (e *Engine) installPair(sections []Section, idA SectionID, a *Section, idB SectionID, b *Section) ([]Section, error) {
	out := cloneSnapshot(sections)
	out[idA] = *a
	out[idA].ID = idA
	out[idB] = *b
	out[idB].ID = idB
	recomputeStartDLONG(out)
	return out, nil
}

// applyClosureTransition canonicalizes the snapshot when an operation just
// closed the loop, so section order matches travel order from section 0.
func (e *Engine) applyClosureTransition(before, after []Section) ([]Section, error) {
	if !IsClosedLoop(before) && IsClosedLoop(after) {
		canon, err := CanonicalizeClosedLoop(after, 0)
		if err != nil {
			return nil, err
		}
		if e.lg != nil {
			e.lg.Debug("loop closed, canonicalized section order")
		}
		return canon, nil
	}
	return after, nil
}

// SplitSection divides a section at the point nearest p.
func (e *Engine) SplitSection(sections []Section, index int, p math.Point) ([]Section, error) {
	return Split(sections, index, p)
}

// DeleteSection removes a section, detaching its neighbors.
func (e *Engine) DeleteSection(sections []Section, index int) ([]Section, error) {
	return Delete(sections, index)
}

// SetStartFinish makes the section owning ref the new section 0. A
// reference to a section's end node selects the following section.
func (e *Engine) SetStartFinish(sections []Section, ref NodeRef) ([]Section, error) {
	idx := ref.Section
	if ref.End == EndNode {
		next := sections[idx].Next
		if !next.Valid(len(sections)) {
			return nil, ErrNotClosed
		}
		idx = next
	}
	return SetStartFinish(sections, int(idx))
}
