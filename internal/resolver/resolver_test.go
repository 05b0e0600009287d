/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package resolver

import (
	"testing"

	"github.com/friendsincode/reserveplanner/internal/reservation"
	"github.com/friendsincode/reserveplanner/internal/tvmodel"
	"github.com/rs/zerolog"
)

func manual(id int64, manualID int64, start, end int64, ct tvmodel.ChannelType) reservation.Reservation {
	return reservation.Reservation{
		Program: tvmodel.Program{ID: id, StartAt: start, EndAt: end, ChannelType: ct},
		Origin:  reservation.OriginManual,
		ManualID: manualID,
	}
}

func ruled(id int64, ruleID int64, start, end int64, ct tvmodel.ChannelType) reservation.Reservation {
	return reservation.Reservation{
		Program: tvmodel.Program{ID: id, StartAt: start, EndAt: end, ChannelType: ct},
		Origin:  reservation.OriginRule,
		RuleID:  ruleID,
	}
}

func newResolver() *Resolver { return New(zerolog.Nop()) }

func findByID(list []reservation.Reservation, id int64) reservation.Reservation {
	for _, r := range list {
		if r.ProgramID() == id {
			return r
		}
	}
	panic("not found")
}

func oneTuner(types ...tvmodel.ChannelType) []tvmodel.TunerDescriptor {
	return []tvmodel.TunerDescriptor{{Index: 0, Types: types}}
}

// S1 — no overlap: both scheduled.
func TestResolveS1NoOverlap(t *testing.T) {
	cands := []reservation.Reservation{
		manual(1, 1, 100, 200, tvmodel.ChannelGR),
		manual(2, 2, 200, 300, tvmodel.ChannelGR),
	}
	out := newResolver().Resolve(cands, oneTuner(tvmodel.ChannelGR))
	if findByID(out, 1).IsConflict || findByID(out, 2).IsConflict {
		t.Fatalf("expected no conflicts, got %+v", out)
	}
}

// S2 — simple conflict: earlier manualId wins.
func TestResolveS2SimpleConflict(t *testing.T) {
	cands := []reservation.Reservation{
		manual(1, 1, 100, 300, tvmodel.ChannelGR),
		manual(2, 2, 150, 250, tvmodel.ChannelGR),
	}
	out := newResolver().Resolve(cands, oneTuner(tvmodel.ChannelGR))
	if findByID(out, 1).IsConflict {
		t.Fatalf("P1 should be kept")
	}
	if !findByID(out, 2).IsConflict {
		t.Fatalf("P2 should conflict")
	}
}

// S3 — priority preemption: manual beats rule regardless of arrival order.
func TestResolveS3PriorityPreemption(t *testing.T) {
	cands := []reservation.Reservation{
		ruled(1, 5, 100, 300, tvmodel.ChannelGR),
		manual(2, 1, 150, 250, tvmodel.ChannelGR),
	}
	out := newResolver().Resolve(cands, oneTuner(tvmodel.ChannelGR))
	if !findByID(out, 1).IsConflict {
		t.Fatalf("rule-origin P1 should conflict")
	}
	if findByID(out, 2).IsConflict {
		t.Fatalf("manual P2 should be kept")
	}
}

// S4 — two tuners, mixed types.
func TestResolveS4TwoTunersMixedTypes(t *testing.T) {
	tuners := []tvmodel.TunerDescriptor{
		{Index: 0, Types: []tvmodel.ChannelType{tvmodel.ChannelGR}},
		{Index: 1, Types: []tvmodel.ChannelType{tvmodel.ChannelBS}},
	}
	cands := []reservation.Reservation{
		manual(1, 1, 100, 300, tvmodel.ChannelGR),
		manual(2, 2, 150, 250, tvmodel.ChannelBS),
		manual(3, 3, 200, 400, tvmodel.ChannelGR),
	}
	out := newResolver().Resolve(cands, tuners)
	if findByID(out, 1).IsConflict {
		t.Fatalf("P1 should be on T0")
	}
	if findByID(out, 2).IsConflict {
		t.Fatalf("P2 should be on T1")
	}
	if !findByID(out, 3).IsConflict {
		t.Fatalf("P3 should conflict (T0 busy, T1 wrong type)")
	}
}

// S5 — skip ignored by allocator.
func TestResolveS5SkipIgnored(t *testing.T) {
	skip := manual(1, 1, 100, 300, tvmodel.ChannelGR)
	skip.IsSkip = true
	cands := []reservation.Reservation{
		skip,
		manual(2, 2, 100, 300, tvmodel.ChannelGR),
	}
	out := newResolver().Resolve(cands, oneTuner(tvmodel.ChannelGR))
	p2 := findByID(out, 2)
	if p2.IsConflict {
		t.Fatalf("P2 should be scheduled, skip must not occupy the tuner")
	}
	p1 := findByID(out, 1)
	if !p1.IsSkip || p1.IsConflict {
		t.Fatalf("P1 must remain a non-conflicting skip, got %+v", p1)
	}
}

// Boundary case underlying the END-before-START tie-break: a program
// ending exactly when another starts must not conflict.
func TestResolveAbuttingIntervalsDoNotConflict(t *testing.T) {
	cands := []reservation.Reservation{
		manual(1, 1, 100, 200, tvmodel.ChannelGR),
		manual(2, 2, 200, 300, tvmodel.ChannelGR),
	}
	out := newResolver().Resolve(cands, oneTuner(tvmodel.ChannelGR))
	if findByID(out, 1).IsConflict || findByID(out, 2).IsConflict {
		t.Fatalf("abutting intervals must not conflict")
	}
}

// Duplicate program ids across manual+rule candidates: manual wins and
// only one survives.
func TestResolveDedupePrefersManual(t *testing.T) {
	cands := []reservation.Reservation{
		ruled(1, 5, 100, 200, tvmodel.ChannelGR),
		manual(1, 1, 100, 200, tvmodel.ChannelGR),
	}
	out := newResolver().Resolve(cands, oneTuner(tvmodel.ChannelGR))
	if len(out) != 1 {
		t.Fatalf("expected dedup to one reservation, got %d", len(out))
	}
	if out[0].Origin != reservation.OriginManual {
		t.Fatalf("expected manual origin to survive dedup")
	}
}

// Output must be ordered by startAt regardless of candidate arrival
// order.
func TestResolveOutputSortedByStart(t *testing.T) {
	cands := []reservation.Reservation{
		manual(2, 2, 500, 600, tvmodel.ChannelGR),
		manual(1, 1, 100, 200, tvmodel.ChannelGR),
	}
	out := newResolver().Resolve(cands, oneTuner(tvmodel.ChannelGR))
	if out[0].ProgramID() != 1 || out[1].ProgramID() != 2 {
		t.Fatalf("expected startAt order, got %+v", out)
	}
}

// Determinism: identical inputs produce identical output across runs.
func TestResolveDeterministic(t *testing.T) {
	build := func() []reservation.Reservation {
		return []reservation.Reservation{
			manual(1, 1, 100, 300, tvmodel.ChannelGR),
			manual(2, 2, 150, 250, tvmodel.ChannelGR),
			ruled(3, 7, 120, 260, tvmodel.ChannelGR),
		}
	}
	r := newResolver()
	first := r.Resolve(build(), oneTuner(tvmodel.ChannelGR))
	second := r.Resolve(build(), oneTuner(tvmodel.ChannelGR))
	if len(first) != len(second) {
		t.Fatalf("length mismatch across runs")
	}
	for i := range first {
		if first[i].ProgramID() != second[i].ProgramID() || first[i].IsConflict != second[i].IsConflict {
			t.Fatalf("non-deterministic output at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
