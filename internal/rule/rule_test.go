/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rule

import "testing"

func TestBuildSearchOptionCopiesWeekAlways(t *testing.T) {
	r := Rule{Week: Monday | Friday}
	opt := BuildSearchOption(r)
	if opt.Week != Monday|Friday {
		t.Fatalf("Week = %d, want %d", opt.Week, Monday|Friday)
	}
}

func TestBuildSearchOptionCopiesNonNilFieldsOnly(t *testing.T) {
	kw := "news"
	gr := true
	r := Rule{Keyword: &kw, GR: &gr}
	opt := BuildSearchOption(r)

	if opt.Keyword == nil || *opt.Keyword != "news" {
		t.Fatalf("Keyword = %v, want \"news\"", opt.Keyword)
	}
	if opt.GR == nil || *opt.GR != true {
		t.Fatalf("GR = %v, want true", opt.GR)
	}
	if opt.Station != nil {
		t.Fatalf("Station = %v, want nil (unset on source rule)", opt.Station)
	}
	if opt.IsRegex != nil {
		t.Fatalf("IsRegex = %v, want nil (unset on source rule)", opt.IsRegex)
	}
}

func TestBuildRuleOptionCarriesEnableUnconditionally(t *testing.T) {
	opt := BuildRuleOption(Rule{Enabled: true})
	if !opt.Enable {
		t.Fatal("Enable should mirror Rule.Enabled even with no Directory/RecordedFormat set")
	}
	if opt.Directory != nil || opt.RecordedFormat != nil {
		t.Fatalf("unset optional fields should stay nil: %+v", opt)
	}
}

func TestBuildRuleOptionCopiesOptionalFields(t *testing.T) {
	dir := "/recordings"
	format := "mp4"
	opt := BuildRuleOption(Rule{Enabled: false, Directory: &dir, RecordedFormat: &format})

	if opt.Enable {
		t.Fatal("Enable should be false")
	}
	if opt.Directory == nil || *opt.Directory != dir {
		t.Fatalf("Directory = %v, want %q", opt.Directory, dir)
	}
	if opt.RecordedFormat == nil || *opt.RecordedFormat != format {
		t.Fatalf("RecordedFormat = %v, want %q", opt.RecordedFormat, format)
	}
}

func TestBuildEncodeOptionAbsentWhenDelTSUnset(t *testing.T) {
	opt, ok := BuildEncodeOption(Rule{})
	if ok || opt != nil {
		t.Fatalf("expected (nil, false) when DelTS is nil, got (%+v, %v)", opt, ok)
	}
}

func TestBuildEncodeOptionCopiesSetPairsOnly(t *testing.T) {
	delTS := true
	enc1 := &EncodePair{Mode: "h264", Directory: "/a"}
	enc3 := &EncodePair{Mode: "h265", Directory: "/c"}
	opt, ok := BuildEncodeOption(Rule{DelTS: &delTS, Enc1: enc1, Enc3: enc3})

	if !ok {
		t.Fatal("expected ok=true when DelTS is set")
	}
	if opt == nil || !opt.DelTS {
		t.Fatalf("opt = %+v, want DelTS=true", opt)
	}
	if len(opt.Pairs) != 2 {
		t.Fatalf("Pairs = %+v, want 2 entries (Enc2 was nil)", opt.Pairs)
	}
	if opt.Pairs[0].Mode != "h264" || opt.Pairs[1].Mode != "h265" {
		t.Fatalf("Pairs out of order or wrong content: %+v", opt.Pairs)
	}
}

func TestWeekdayBitmaskValuesAreDistinctSingleBits(t *testing.T) {
	days := []int{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
	seen := 0
	for _, d := range days {
		if d&(d-1) != 0 {
			t.Fatalf("weekday constant %d is not a single bit", d)
		}
		seen |= d
	}
	if seen != 0x7F {
		t.Fatalf("combined weekday bits = %#x, want 0x7F", seen)
	}
}
