/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package reservation

import (
	"encoding/json"
	"testing"

	"github.com/friendsincode/reserveplanner/internal/tvmodel"
)

func TestProgramIDAccessor(t *testing.T) {
	r := Reservation{Program: tvmodel.Program{ID: 42}}
	if r.ProgramID() != 42 {
		t.Fatalf("ProgramID() = %d, want 42", r.ProgramID())
	}
}

func TestJSONRoundTripPreservesManualOrigin(t *testing.T) {
	dir := "/recordings"
	r := Reservation{
		Program:  tvmodel.Program{ID: 1, StartAt: 100, EndAt: 200, ChannelType: tvmodel.ChannelGR},
		Origin:   OriginManual,
		ManualID: 7,
		RuleOption: &RuleOption{
			Enable:    true,
			Directory: &dir,
		},
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out Reservation
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if out.Origin != OriginManual || out.ManualID != 7 || out.RuleID != 0 {
		t.Fatalf("round trip lost origin/id fields: %+v", out)
	}
	if out.RuleOption == nil || out.RuleOption.Directory == nil || *out.RuleOption.Directory != dir {
		t.Fatalf("round trip lost RuleOption: %+v", out.RuleOption)
	}
}

func TestJSONRoundTripPreservesRuleOriginAndEncodeOption(t *testing.T) {
	r := Reservation{
		Program: tvmodel.Program{ID: 2, StartAt: 100, EndAt: 200},
		Origin:  OriginRule,
		RuleID:  3,
		EncodeOption: &EncodeOption{
			DelTS: true,
			Pairs: []EncodeDirective{{Mode: "h264", Directory: "/transcoded"}},
		},
		IsConflict: true,
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out Reservation
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if out.Origin != OriginRule || out.RuleID != 3 || out.ManualID != 0 {
		t.Fatalf("round trip lost origin/id fields: %+v", out)
	}
	if !out.IsConflict {
		t.Fatal("round trip lost IsConflict")
	}
	if out.EncodeOption == nil || len(out.EncodeOption.Pairs) != 1 || out.EncodeOption.Pairs[0].Mode != "h264" {
		t.Fatalf("round trip lost EncodeOption: %+v", out.EncodeOption)
	}
}

func TestOmitEmptyDropsUnsetOptionalFields(t *testing.T) {
	r := Reservation{
		Program: tvmodel.Program{ID: 1, StartAt: 100, EndAt: 200},
		Origin:  OriginManual,
		ManualID: 1,
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, absent := range []string{"ruleId", "ruleOption", "encodeOption"} {
		if _, present := raw[absent]; present {
			t.Fatalf("expected %q to be omitted, got %v", absent, raw[absent])
		}
	}
}
