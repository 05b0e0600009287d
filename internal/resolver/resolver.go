/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package resolver implements the sweep-line conflict resolver: it
// turns a candidate multiset plus a tuner inventory into a
// deduplicated, tri-partitioned (scheduled / conflict / skip)
// reservation list.
package resolver

import (
	"sort"
	"time"

	"github.com/friendsincode/reserveplanner/internal/reservation"
	"github.com/friendsincode/reserveplanner/internal/telemetry"
	"github.com/friendsincode/reserveplanner/internal/tuner"
	"github.com/friendsincode/reserveplanner/internal/tvmodel"
	"github.com/rs/zerolog"
)

// Resolver is the sweep-line allocator. It holds no state of its own
// between calls; tuner slots are rebuilt fresh for every Resolve.
type Resolver struct {
	logger zerolog.Logger
}

// New builds a resolver.
func New(logger zerolog.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// eventKind orders END before START at equal timestamps, so that a
// program ending exactly when another starts does not spuriously
// conflict over the shared instant.
type eventKind int

const (
	eventEnd eventKind = iota
	eventStart
)

type sweepEvent struct {
	time int64
	kind eventKind
	idx  int
}

// Resolve dedupes, sweeps, and re-sorts candidates against tuners,
// returning a fresh slice (candidates are copied, not mutated).
func (r *Resolver) Resolve(candidates []reservation.Reservation, tuners []tvmodel.TunerDescriptor) []reservation.Reservation {
	start := time.Now()
	defer func() {
		telemetry.ReplanDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	// Stage 1: deduplicate, preserving priority (authority order).
	deduped := dedupe(candidates)
	if len(deduped) == 0 {
		return deduped
	}

	slots := make([]*tuner.Slot, len(tuners))
	for i, d := range tuners {
		slots[i] = tuner.New(d)
	}

	// Stage 2: build and sort sweep events.
	events := make([]sweepEvent, 0, len(deduped)*2)
	for i, c := range deduped {
		events = append(events,
			sweepEvent{time: c.Program.StartAt, kind: eventStart, idx: i},
			sweepEvent{time: c.Program.EndAt, kind: eventEnd, idx: i},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].time != events[j].time {
			return events[i].time < events[j].time
		}
		// END before START at equal time.
		return events[i].kind < events[j].kind
	})

	// Stage 3: sweep, maintaining the active set and reassigning
	// tuners in authority order after every event. conflicted tracks,
	// for the current active lifetime of each candidate, whether it
	// has already lost its tuner to a higher-priority candidate; once
	// set it survives until the candidate's own END event, so a
	// candidate already in conflict cannot heal back to scheduled just
	// because some other active candidate later ends and frees a slot.
	active := make(map[int]struct{})
	conflicted := make(map[int]bool)
	for _, ev := range events {
		if deduped[ev.idx].IsSkip {
			// A skip occupies no tuner and cannot conflict; ignore
			// both its events entirely.
			continue
		}
		switch ev.kind {
		case eventStart:
			active[ev.idx] = struct{}{}
		case eventEnd:
			delete(active, ev.idx)
			delete(conflicted, ev.idx)
		}
		reassign(deduped, active, conflicted, slots)
	}

	// A skip never participates in allocation, so it can never
	// conflict, regardless of what the candidate carried in.
	for i := range deduped {
		if deduped[i].IsSkip {
			deduped[i].IsConflict = false
		}
	}

	// Stage 4: emit in startAt order (the sweep above needs authority
	// order internally; the public result is ordered by time).
	out := append([]reservation.Reservation(nil), deduped...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Program.StartAt < out[j].Program.StartAt
	})

	for _, res := range out {
		switch {
		case res.IsConflict:
			telemetry.ReservationConflictsTotal.Inc()
		case !res.IsSkip:
			telemetry.ReservationsScheduledTotal.Inc()
		}
	}

	return out
}

// dedupe sorts candidates by authority order (manual before rule;
// smaller manualId/ruleId first among same-origin pairs) and keeps the
// first occurrence of each program id. The surviving order is the
// authority order used for all subsequent tuner allocation.
func dedupe(candidates []reservation.Reservation) []reservation.Reservation {
	sorted := append([]reservation.Reservation(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	seen := make(map[int64]struct{}, len(sorted))
	out := make([]reservation.Reservation, 0, len(sorted))
	for _, c := range sorted {
		id := c.ProgramID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, c)
	}
	return out
}

// less implements the authority order: manual before rule; among two
// manual, smaller manualId first; among two rule, smaller ruleId
// first.
func less(a, b reservation.Reservation) bool {
	if a.Origin != b.Origin {
		return a.Origin == reservation.OriginManual
	}
	if a.Origin == reservation.OriginManual {
		return a.ManualID < b.ManualID
	}
	return a.RuleID < b.RuleID
}

// reassign clears every tuner, then walks the active set in authority
// order attempting tryAdd against tuners in index order, marking
// IsConflict accordingly. Re-running this on every sweep event
// guarantees a higher-priority candidate already in the active set
// always keeps its tuner when a lower-priority candidate arrives,
// since it is re-placed first. A candidate already recorded in
// conflicted is never retried: it already lost the tuner time it
// needed for its own interval, and a slot freed later by some other
// candidate's END does not undo that, so it stays marked conflict and
// holds no slot for the remainder of its own active lifetime.
func reassign(deduped []reservation.Reservation, active map[int]struct{}, conflicted map[int]bool, slots []*tuner.Slot) {
	ordered := make([]int, 0, len(active))
	for idx := range active {
		ordered = append(ordered, idx)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(deduped[ordered[i]], deduped[ordered[j]])
	})

	for _, s := range slots {
		s.Clear()
	}

	for _, idx := range ordered {
		if conflicted[idx] {
			deduped[idx].IsConflict = true
			continue
		}
		placed := false
		for _, s := range slots {
			if s.TryAdd(deduped[idx].Program) {
				placed = true
				break
			}
		}
		deduped[idx].IsConflict = !placed
		if !placed {
			conflicted[idx] = true
		}
	}
}
