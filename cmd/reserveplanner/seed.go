/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/reserveplanner/internal/catalogue"
	"github.com/friendsincode/reserveplanner/internal/notify"
	"github.com/friendsincode/reserveplanner/internal/planner"
	"github.com/friendsincode/reserveplanner/internal/rule"
	"github.com/friendsincode/reserveplanner/internal/store"
	"github.com/friendsincode/reserveplanner/internal/tvmodel"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo catalogue and rule set, then run one updateAll",
	Long:  "Populates the in-memory reference catalogue and rule store with a small fixed demo dataset, runs a single replan, and prints the result. For local exploration only.",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	cat := catalogue.NewMemCatalogue()
	cat.Seed(demoPrograms())
	rules := catalogue.NewMemRuleStore()
	rules.Seed(demoRules())

	st := store.New(cfg.ReservationsFile, logger)
	p := planner.New(cat, rules, st, notify.NewInProcess(), logger)
	if err := p.Load(); err != nil {
		return fmt.Errorf("load reservation document: %w", err)
	}
	if err := p.SetTuners(context.Background(), demoTuners()); err != nil {
		return fmt.Errorf("set tuners: %w", err)
	}

	resolved, err := p.UpdateAll(context.Background())
	if err != nil {
		return fmt.Errorf("updateAll: %w", err)
	}

	for _, r := range resolved {
		fmt.Printf("program=%d origin=%s conflict=%t skip=%t\n", r.ProgramID(), r.Origin, r.IsConflict, r.IsSkip)
	}
	return nil
}

func demoPrograms() []tvmodel.Program {
	return []tvmodel.Program{
		{ID: 1, StartAt: 1_700_000_000_000, EndAt: 1_700_000_600_000, ChannelType: tvmodel.ChannelGR, Name: "Morning News"},
		{ID: 2, StartAt: 1_700_000_300_000, EndAt: 1_700_000_900_000, ChannelType: tvmodel.ChannelGR, Name: "Weather Special"},
		{ID: 3, StartAt: 1_700_001_000_000, EndAt: 1_700_001_600_000, ChannelType: tvmodel.ChannelBS, Name: "Documentary Hour"},
	}
}

func demoRules() []rule.Rule {
	keyword := "news"
	return []rule.Rule{
		{ID: 1, Enabled: true, Week: 0x7F, Priority: 1, Keyword: &keyword},
	}
}

func demoTuners() []tvmodel.TunerDescriptor {
	return []tvmodel.TunerDescriptor{
		{Index: 0, Types: []tvmodel.ChannelType{tvmodel.ChannelGR}},
		{Index: 1, Types: []tvmodel.ChannelType{tvmodel.ChannelBS, tvmodel.ChannelCS, tvmodel.ChannelSKY}},
	}
}
