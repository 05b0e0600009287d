/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package rule projects a user-defined matching rule into the
// search/option/encode triple consumed by the catalogue and by
// downstream recording. The mapping is pure: it reads a Rule record
// and copies each optional field iff the source value is non-nil;
// absence and explicit null are indistinguishable downstream.
package rule

import "github.com/friendsincode/reserveplanner/internal/reservation"

// Weekday bitmask bits, Sunday = bit 0. Grounded on
// other_examples/ManuGH-xg2g__rule.go's `Days []int` field, collapsed
// here into a single bitmask carried on SearchOption.Week.
const (
	Sunday    = 1 << 0
	Monday    = 1 << 1
	Tuesday   = 1 << 2
	Wednesday = 1 << 3
	Thursday  = 1 << 4
	Friday    = 1 << 5
	Saturday  = 1 << 6
)

// TimeRange is a per-day start/span window, e.g. "20:00" for 30
// minutes.
type TimeRange struct {
	StartTime string // "HH:MM"
	DurationMinutes int
}

// Rule is a user-defined matching rule. Every field beyond ID/Enabled/
// Week/Priority is a pointer so that "not set" (nil) is distinguishable
// from "set to the zero value" — the adapter relies on this to decide
// what to copy.
type Rule struct {
	ID       int64
	Enabled  bool
	Week     int // bitmask of weekdays, always present
	Priority int

	Keyword         *string
	IgnoreKeyword   *string
	CaseSensitive   *bool
	IsRegex         *bool
	Title           *bool
	Description     *bool
	Extended        *bool
	GR              *bool
	BS              *bool
	CS              *bool
	SKY             *bool
	Station         *string
	GenreL1         *int
	GenreL2         *int
	StartTime       *string
	TimeRangeMin    *int
	IsFree          *bool
	DurationMinMin  *int
	DurationMaxMin  *int

	Directory      *string
	RecordedFormat *string

	DelTS *bool
	Enc1  *EncodePair
	Enc2  *EncodePair
	Enc3  *EncodePair
}

// EncodePair is one (mode, directory) transcode pair as configured on
// a rule.
type EncodePair struct {
	Mode      string
	Directory string
}

// SearchOption is the catalogue query object. Week is always present;
// every other field is copied from Rule iff the source pointer is
// non-nil.
type SearchOption struct {
	Week int

	Keyword        *string
	IgnoreKeyword  *string
	CaseSensitive  *bool
	IsRegex        *bool
	Title          *bool
	Description    *bool
	Extended       *bool
	GR             *bool
	BS             *bool
	CS             *bool
	SKY            *bool
	Station        *string
	GenreL1        *int
	GenreL2        *int
	StartTime      *string
	TimeRangeMin   *int
	IsFree         *bool
	DurationMinMin *int
	DurationMaxMin *int
}

// BuildSearchOption copies every optional field of r iff non-nil.
func BuildSearchOption(r Rule) SearchOption {
	return SearchOption{
		Week:           r.Week,
		Keyword:        r.Keyword,
		IgnoreKeyword:  r.IgnoreKeyword,
		CaseSensitive:  r.CaseSensitive,
		IsRegex:        r.IsRegex,
		Title:          r.Title,
		Description:    r.Description,
		Extended:       r.Extended,
		GR:             r.GR,
		BS:             r.BS,
		CS:             r.CS,
		SKY:            r.SKY,
		Station:        r.Station,
		GenreL1:        r.GenreL1,
		GenreL2:        r.GenreL2,
		StartTime:      r.StartTime,
		TimeRangeMin:   r.TimeRangeMin,
		IsFree:         r.IsFree,
		DurationMinMin: r.DurationMinMin,
		DurationMaxMin: r.DurationMaxMin,
	}
}

// BuildRuleOption always carries Enable; Directory/RecordedFormat are
// copied iff non-nil.
func BuildRuleOption(r Rule) reservation.RuleOption {
	return reservation.RuleOption{
		Enable:         r.Enabled,
		Directory:      r.Directory,
		RecordedFormat: r.RecordedFormat,
	}
}

// BuildEncodeOption returns (option, true) only when r.DelTS is
// non-nil; the three encode pairs are then copied iff non-nil.
func BuildEncodeOption(r Rule) (*reservation.EncodeOption, bool) {
	if r.DelTS == nil {
		return nil, false
	}
	opt := &reservation.EncodeOption{DelTS: *r.DelTS}
	for _, pair := range []*EncodePair{r.Enc1, r.Enc2, r.Enc3} {
		if pair == nil {
			continue
		}
		opt.Pairs = append(opt.Pairs, reservation.EncodeDirective{
			Mode:      pair.Mode,
			Directory: pair.Directory,
		})
	}
	return opt, true
}
