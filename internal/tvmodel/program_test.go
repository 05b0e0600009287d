/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package tvmodel

import "testing"

func TestOverlapsDetectsIntersectingIntervals(t *testing.T) {
	a := Program{StartAt: 100, EndAt: 200}
	b := Program{StartAt: 150, EndAt: 250}
	if !a.Overlaps(b) {
		t.Fatal("expected overlap")
	}
	if !b.Overlaps(a) {
		t.Fatal("Overlaps should be symmetric")
	}
}

func TestOverlapsHalfOpenAbuttingIntervalsDoNotOverlap(t *testing.T) {
	a := Program{StartAt: 100, EndAt: 200}
	b := Program{StartAt: 200, EndAt: 300}
	if a.Overlaps(b) {
		t.Fatal("abutting intervals [100,200) and [200,300) should not overlap")
	}
}

func TestOverlapsDisjointIntervals(t *testing.T) {
	a := Program{StartAt: 100, EndAt: 200}
	b := Program{StartAt: 300, EndAt: 400}
	if a.Overlaps(b) {
		t.Fatal("disjoint intervals should not overlap")
	}
}

func TestOverlapsOneContainsOther(t *testing.T) {
	a := Program{StartAt: 100, EndAt: 400}
	b := Program{StartAt: 150, EndAt: 200}
	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatal("a fully containing b should overlap")
	}
}

func TestTunerDescriptorAccepts(t *testing.T) {
	d := TunerDescriptor{Index: 0, Types: []ChannelType{ChannelGR, ChannelBS}}
	if !d.Accepts(ChannelGR) {
		t.Fatal("expected GR to be accepted")
	}
	if d.Accepts(ChannelSKY) {
		t.Fatal("SKY was not in the descriptor's type set")
	}
}

func TestTunerDescriptorAcceptsEmptySet(t *testing.T) {
	d := TunerDescriptor{Index: 0}
	if d.Accepts(ChannelGR) {
		t.Fatal("a descriptor with no types should accept nothing")
	}
}
