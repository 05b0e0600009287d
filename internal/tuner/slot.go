/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package tuner models one physical tuner: the channel types it can
// receive and the non-overlapping programs tentatively assigned to it
// during one resolver sweep. Slot state is transient and owned
// exclusively by the caller driving the sweep; nothing here persists.
package tuner

import "github.com/friendsincode/reserveplanner/internal/tvmodel"

// Slot is one physical tuner plus its transient holding state.
type Slot struct {
	Index      int
	descriptor tvmodel.TunerDescriptor
	held       []tvmodel.Program
}

// New builds a slot from a descriptor.
func New(d tvmodel.TunerDescriptor) *Slot {
	return &Slot{Index: d.Index, descriptor: d}
}

// TryAdd appends program to the slot iff its channel type is
// acceptable and it does not overlap any currently held program. It
// reports whether the program was accepted; on rejection the slot is
// left unchanged.
func (s *Slot) TryAdd(p tvmodel.Program) bool {
	if !s.descriptor.Accepts(p.ChannelType) {
		return false
	}
	for _, h := range s.held {
		if p.Overlaps(h) {
			return false
		}
	}
	s.held = append(s.held, p)
	return true
}

// Clear discards all held programs.
func (s *Slot) Clear() {
	s.held = s.held[:0]
}
