/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package catalogue defines the collaborator contracts the planner
// façade depends on for program and rule lookups, plus an in-memory
// reference implementation of both.
package catalogue

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/friendsincode/reserveplanner/internal/rule"
	"github.com/friendsincode/reserveplanner/internal/tvmodel"
)

// ErrProgramNotFound names a lookup for an id the catalogue does not
// hold. MemCatalogue.FindByID does not return it: a missing id yields
// an empty result and a nil error.
var ErrProgramNotFound = errors.New("program not found")

// Catalogue is the program lookup port.
type Catalogue interface {
	// FindByID returns 0 or 1 program; withExtended asks for the
	// extended-description field to be populated.
	FindByID(ctx context.Context, id int64, withExtended bool) ([]tvmodel.Program, error)
	// FindByRule returns every program currently matching opt.
	FindByRule(ctx context.Context, opt rule.SearchOption) ([]tvmodel.Program, error)
}

// RuleStore is the rule lookup port.
type RuleStore interface {
	FindAll(ctx context.Context) ([]rule.Rule, error)
	// FindByID returns 0 or 1 rule.
	FindByID(ctx context.Context, id int64) ([]rule.Rule, error)
}

// MemCatalogue is an in-memory Catalogue, seeded directly by tests and
// by the seed CLI subcommand.
type MemCatalogue struct {
	mu       sync.RWMutex
	programs map[int64]tvmodel.Program
}

// NewMemCatalogue builds an empty in-memory catalogue.
func NewMemCatalogue() *MemCatalogue {
	return &MemCatalogue{programs: make(map[int64]tvmodel.Program)}
}

// Seed replaces the catalogue's content.
func (c *MemCatalogue) Seed(programs []tvmodel.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.programs = make(map[int64]tvmodel.Program, len(programs))
	for _, p := range programs {
		c.programs[p.ID] = p
	}
}

// FindByID implements Catalogue.
func (c *MemCatalogue) FindByID(_ context.Context, id int64, _ bool) ([]tvmodel.Program, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.programs[id]
	if !ok {
		return nil, nil
	}
	return []tvmodel.Program{p}, nil
}

// FindByRule implements Catalogue. It matches on keyword substring
// (case-insensitive unless opt.CaseSensitive is true) and channel type
// flags — enough surface for tests and the seed command without
// pulling in a real EPG backend. The weekday bitmask (opt.Week) is not
// consulted.
func (c *MemCatalogue) FindByRule(_ context.Context, opt rule.SearchOption) ([]tvmodel.Program, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []tvmodel.Program
	for _, p := range c.programs {
		if !matchesChannelType(opt, p.ChannelType) {
			continue
		}
		if !matchesKeyword(opt, p) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func matchesChannelType(opt rule.SearchOption, ct tvmodel.ChannelType) bool {
	switch ct {
	case tvmodel.ChannelGR:
		return opt.GR == nil || *opt.GR
	case tvmodel.ChannelBS:
		return opt.BS == nil || *opt.BS
	case tvmodel.ChannelCS:
		return opt.CS == nil || *opt.CS
	case tvmodel.ChannelSKY:
		return opt.SKY == nil || *opt.SKY
	default:
		return true
	}
}

func matchesKeyword(opt rule.SearchOption, p tvmodel.Program) bool {
	if opt.Keyword == nil || *opt.Keyword == "" {
		return true
	}
	haystack := p.Name
	if opt.Description != nil && *opt.Description {
		if synopsis, ok := p.Extra["description"].(string); ok {
			haystack += " " + synopsis
		}
	}
	needle := *opt.Keyword
	if opt.CaseSensitive == nil || !*opt.CaseSensitive {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	return strings.Contains(haystack, needle)
}

// MemRuleStore is an in-memory RuleStore.
type MemRuleStore struct {
	mu    sync.RWMutex
	rules map[int64]rule.Rule
}

// NewMemRuleStore builds an empty in-memory rule store.
func NewMemRuleStore() *MemRuleStore {
	return &MemRuleStore{rules: make(map[int64]rule.Rule)}
}

// Seed replaces the store's content.
func (s *MemRuleStore) Seed(rules []rule.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = make(map[int64]rule.Rule, len(rules))
	for _, r := range rules {
		s.rules[r.ID] = r
	}
}

// FindAll implements RuleStore.
func (s *MemRuleStore) FindAll(_ context.Context) ([]rule.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rule.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	return out, nil
}

// FindByID implements RuleStore.
func (s *MemRuleStore) FindByID(_ context.Context, id int64) ([]rule.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[id]
	if !ok {
		return nil, nil
	}
	return []rule.Rule{r}, nil
}
