/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package reservation defines the Reservation record: the unit the
// planner allocates, persists, and reports on.
package reservation

import "github.com/friendsincode/reserveplanner/internal/tvmodel"

// Origin distinguishes a user-pinned reservation from one produced by
// a rule match.
type Origin string

const (
	OriginManual Origin = "manual"
	OriginRule   Origin = "rule"
)

// RuleOption is the per-rule output policy, copied verbatim from the
// rule record that produced a reservation.
type RuleOption struct {
	Enable         bool    `json:"enable"`
	Directory      *string `json:"directory,omitempty"`
	RecordedFormat *string `json:"recordedFormat,omitempty"`
}

// EncodeDirective is one (mode, directory) transcode pair.
type EncodeDirective struct {
	Mode      string `json:"mode"`
	Directory string `json:"directory"`
}

// EncodeOption is an optional transcode directive, opaque to the
// resolver, carried through unchanged.
type EncodeOption struct {
	DelTS bool               `json:"delTs"`
	Pairs []EncodeDirective  `json:"pairs,omitempty"`
}

// Reservation is a program snapshot plus the planning metadata the
// resolver and façade need. Exactly one of ManualID/RuleID is set,
// matching Origin.
type Reservation struct {
	Program tvmodel.Program `json:"program"`
	Origin  Origin          `json:"origin"`

	ManualID int64 `json:"manualId,omitempty"` // present iff Origin == OriginManual
	RuleID   int64 `json:"ruleId,omitempty"`   // present iff Origin == OriginRule

	RuleOption   *RuleOption   `json:"ruleOption,omitempty"`
	EncodeOption *EncodeOption `json:"encodeOption,omitempty"`

	IsSkip     bool `json:"isSkip"`
	IsConflict bool `json:"isConflict"`
}

// ProgramID is a convenience accessor used throughout the store and
// resolver, which key uniqueness and dedup on it.
func (r Reservation) ProgramID() int64 { return r.Program.ID }
