/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package planner is the façade the rest of the system drives: it
// owns the single-writer discipline, wires the catalogue, rule store,
// resolver, persistence, and IPC collaborators together, and exposes
// the public mutating and query operations.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/friendsincode/reserveplanner/internal/catalogue"
	"github.com/friendsincode/reserveplanner/internal/notify"
	"github.com/friendsincode/reserveplanner/internal/reservation"
	"github.com/friendsincode/reserveplanner/internal/resolver"
	"github.com/friendsincode/reserveplanner/internal/rule"
	"github.com/friendsincode/reserveplanner/internal/store"
	"github.com/friendsincode/reserveplanner/internal/telemetry"
	"github.com/friendsincode/reserveplanner/internal/tvmodel"
	"github.com/rs/zerolog"
)

// Sentinel errors surfaced by the façade's mutating operations.
var (
	ErrAlreadyRunning      = errors.New("planner: a mutating operation is already running")
	ErrProgramNotFound     = errors.New("planner: program not found")
	ErrAlreadyReserved     = errors.New("planner: program already reserved")
	ErrConflict            = errors.New("planner: program would not fit any tuner")
	ErrInvalidEncodeOption = errors.New("planner: invalid encode option")
)

// ErrPersistenceFatal is re-exported from store so callers only need
// to import one package for errors.Is checks.
var ErrPersistenceFatal = store.ErrPersistenceFatal

// Planner is the reservation planner façade. It is safe for
// concurrent use: every mutating operation serialises behind a single
// running flag guarding the whole write surface.
type Planner struct {
	catalogue catalogue.Catalogue
	rules     catalogue.RuleStore
	store     *store.Store
	resolver  *resolver.Resolver
	notifier  notify.Notifier
	logger    zerolog.Logger

	mu      sync.Mutex
	running bool
	tuners  []tvmodel.TunerDescriptor

	idMu       sync.Mutex
	lastIssued int64
}

// New builds a planner bound to its collaborators. Call Load before
// serving traffic.
func New(cat catalogue.Catalogue, rules catalogue.RuleStore, st *store.Store, notifier notify.Notifier, logger zerolog.Logger) *Planner {
	return &Planner{
		catalogue: cat,
		rules:     rules,
		store:     st,
		resolver:  resolver.New(logger),
		notifier:  notifier,
		logger:    logger,
	}
}

// Load reads the persisted document and restores monotonic manual-id
// issuance from the highest manual id found on disk.
func (p *Planner) Load() error {
	if err := p.store.Load(); err != nil {
		return err
	}
	p.idMu.Lock()
	p.lastIssued = p.store.HighestManualID()
	p.idMu.Unlock()
	return nil
}

// acquire sets the running flag, failing fast if a mutation is
// already in flight. release must be deferred immediately after a
// successful acquire.
func (p *Planner) acquire() (release func(), err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil, ErrAlreadyRunning
	}
	p.running = true
	return func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}, nil
}

// SetTuners replaces the tuner inventory. No re-plan is implicit.
func (p *Planner) SetTuners(ctx context.Context, tuners []tvmodel.TunerDescriptor) error {
	release, err := p.acquire()
	if err != nil {
		return err
	}
	defer release()

	p.tuners = append([]tvmodel.TunerDescriptor(nil), tuners...)
	p.logger.Info().Int("count", len(tuners)).Msg("tuner inventory replaced")
	return nil
}

// nextManualID issues a strictly increasing manual id: the current
// wall-clock epoch-ms, or one past the previously issued id, whichever
// is larger.
func (p *Planner) nextManualID() int64 {
	p.idMu.Lock()
	defer p.idMu.Unlock()
	now := time.Now().UnixMilli()
	id := now
	if p.lastIssued+1 > id {
		id = p.lastIssued + 1
	}
	p.lastIssued = id
	return id
}

// AddManual validates encodeOption, fetches the target program, and
// appends it as a manual reservation iff it would not conflict. State
// is left untouched on every error path.
func (p *Planner) AddManual(ctx context.Context, programID int64, opt *reservation.EncodeOption) (reservation.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "planner", "AddManual")
	defer span.End()
	telemetry.AddSpanAttributes(span, map[string]any{"program_id": programID})

	release, err := p.acquire()
	if err != nil {
		return reservation.Reservation{}, err
	}
	defer release()

	if opt != nil && len(opt.Pairs) > 3 {
		err := fmt.Errorf("%w: at most 3 encode pairs", ErrInvalidEncodeOption)
		telemetry.RecordError(span, err)
		telemetry.PlannerErrorsTotal.WithLabelValues("add_manual", "invalid_encode_option").Inc()
		return reservation.Reservation{}, err
	}

	if _, ok := p.store.ByProgramID(programID); ok {
		telemetry.PlannerErrorsTotal.WithLabelValues("add_manual", "already_reserved").Inc()
		return reservation.Reservation{}, ErrAlreadyReserved
	}

	programs, err := p.catalogue.FindByID(ctx, programID, false)
	if err != nil {
		telemetry.RecordError(span, err)
		telemetry.PlannerErrorsTotal.WithLabelValues("add_manual", "catalogue_lookup").Inc()
		return reservation.Reservation{}, fmt.Errorf("fetch program %d: %w", programID, err)
	}
	if len(programs) == 0 {
		telemetry.PlannerErrorsTotal.WithLabelValues("add_manual", "program_not_found").Inc()
		return reservation.Reservation{}, ErrProgramNotFound
	}
	program := programs[0]

	candidate := reservation.Reservation{
		Program:      program,
		Origin:       reservation.OriginManual,
		ManualID:     p.nextManualID(),
		EncodeOption: opt,
	}

	existing := p.store.Snapshot()
	overlapping := make([]reservation.Reservation, 0, len(existing)+1)
	for _, r := range existing {
		if r.IsSkip || r.IsConflict {
			continue
		}
		if r.Program.Overlaps(program) {
			overlapping = append(overlapping, r)
		}
	}
	overlapping = append(overlapping, candidate)

	resolved := p.resolver.Resolve(overlapping, p.tuners)
	var result reservation.Reservation
	for _, r := range resolved {
		if r.ProgramID() == programID {
			result = r
			break
		}
	}
	if result.IsConflict {
		telemetry.PlannerErrorsTotal.WithLabelValues("add_manual", "conflict").Inc()
		return reservation.Reservation{}, ErrConflict
	}

	full := append(existing, candidate)
	p.store.Replace(full)
	if err := p.store.Save(); err != nil {
		p.store.Replace(existing)
		telemetry.RecordError(span, err)
		telemetry.PlannerErrorsTotal.WithLabelValues("add_manual", "persist").Inc()
		return reservation.Reservation{}, err
	}

	p.logger.Info().Int64("programId", programID).Int64("manualId", candidate.ManualID).Msg("manual reservation added")
	return candidate, nil
}

// Cancel removes a manual reservation, or marks a rule-origin one
// skipped, then triggers an asynchronous re-plan.
func (p *Planner) Cancel(ctx context.Context, programID int64) error {
	release, err := p.acquire()
	if err != nil {
		return err
	}

	existing := p.store.Snapshot()
	idx := -1
	for i, r := range existing {
		if r.ProgramID() == programID {
			idx = i
			break
		}
	}
	if idx < 0 {
		release()
		return ErrProgramNotFound
	}

	var out []reservation.Reservation
	if existing[idx].Origin == reservation.OriginManual {
		out = append(append([]reservation.Reservation(nil), existing[:idx]...), existing[idx+1:]...)
	} else {
		out = append([]reservation.Reservation(nil), existing...)
		out[idx].IsSkip = true
		out[idx].IsConflict = false
	}
	p.store.Replace(out)
	err = p.store.Save()
	release()
	if err != nil {
		return err
	}

	p.logger.Info().Int64("programId", programID).Msg("reservation cancelled")
	go func() {
		if _, err := p.UpdateAll(context.Background()); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			p.logger.Warn().Err(err).Msg("post-cancel replan failed")
		}
	}()
	return nil
}

// Unskip clears isSkip on the matching reservation. For a rule-origin
// entry it then runs a scoped re-plan of that rule.
func (p *Planner) Unskip(ctx context.Context, programID int64) error {
	release, err := p.acquire()
	if err != nil {
		return err
	}

	existing := p.store.Snapshot()
	idx := -1
	for i, r := range existing {
		if r.ProgramID() == programID {
			idx = i
			break
		}
	}
	if idx < 0 {
		release()
		return ErrProgramNotFound
	}

	out := append([]reservation.Reservation(nil), existing...)
	out[idx].IsSkip = false
	ruleID := out[idx].RuleID
	isRule := out[idx].Origin == reservation.OriginRule
	p.store.Replace(out)
	err = p.store.Save()
	release()
	if err != nil {
		return err
	}

	p.logger.Info().Int64("programId", programID).Msg("reservation unskipped")
	if isRule {
		if _, err := p.UpdateRule(ctx, ruleID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateAll refreshes manual and rule-origin reservations from the
// catalogue, re-applies skip flags, runs the resolver, persists, and
// notifies observers.
func (p *Planner) UpdateAll(ctx context.Context) ([]reservation.Reservation, error) {
	release, err := p.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	return p.replan(ctx, nil)
}

// UpdateRule replans a single rule's matches. Every other rule's
// reservations and all manual entries are kept as they are, except
// that their conflict flag is cleared before they are re-resolved
// together with the fresh matches.
func (p *Planner) UpdateRule(ctx context.Context, ruleID int64) ([]reservation.Reservation, error) {
	release, err := p.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	return p.replan(ctx, &ruleID)
}

// replan implements both UpdateAll (scope == nil) and UpdateRule
// (scope naming the one rule to refresh). Must be called with the
// running flag already held.
func (p *Planner) replan(ctx context.Context, scope *int64) ([]reservation.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "planner", "replan")
	defer span.End()
	if scope != nil {
		telemetry.AddSpanAttributes(span, map[string]any{"rule_id": *scope})
	}

	existing := p.store.Snapshot()
	skipByProgram := make(map[int64]bool, len(existing))
	for _, r := range existing {
		if r.IsSkip {
			skipByProgram[r.ProgramID()] = true
		}
	}

	var candidates []reservation.Reservation

	if scope == nil {
		for _, r := range existing {
			if r.Origin != reservation.OriginManual {
				continue
			}
			programs, err := p.catalogue.FindByID(ctx, r.ProgramID(), false)
			if err != nil {
				p.logger.Warn().Err(err).Int64("programId", r.ProgramID()).Msg("manual refresh failed, dropping entry")
				continue
			}
			if len(programs) == 0 {
				p.logger.Info().Int64("programId", r.ProgramID()).Msg("manual program no longer in catalogue, dropping")
				continue
			}
			fresh := r
			fresh.Program = programs[0]
			candidates = append(candidates, fresh)
		}
	} else {
		for _, r := range existing {
			if r.Origin == reservation.OriginRule && r.RuleID == *scope {
				continue
			}
			fresh := r
			fresh.IsConflict = false
			candidates = append(candidates, fresh)
		}
	}

	rules, err := p.rulesInScope(ctx, scope)
	if err != nil {
		telemetry.RecordError(span, err)
		telemetry.PlannerErrorsTotal.WithLabelValues("replan", "rule_lookup").Inc()
		return nil, err
	}
	for _, rl := range rules {
		if !rl.Enabled {
			continue
		}
		matches, err := p.catalogue.FindByRule(ctx, rule.BuildSearchOption(rl))
		if err != nil {
			p.logger.Warn().Err(err).Int64("ruleId", rl.ID).Msg("rule match lookup failed, skipping rule")
			continue
		}
		ruleOpt := rule.BuildRuleOption(rl)
		encodeOpt, hasEncode := rule.BuildEncodeOption(rl)
		for _, program := range matches {
			cand := reservation.Reservation{
				Program:    program,
				Origin:     reservation.OriginRule,
				RuleID:     rl.ID,
				RuleOption: &ruleOpt,
				IsSkip:     skipByProgram[program.ID],
			}
			if hasEncode {
				cand.EncodeOption = encodeOpt
			}
			candidates = append(candidates, cand)
		}
	}

	resolved := p.resolver.Resolve(candidates, p.tuners)
	p.store.Replace(resolved)
	if err := p.store.Save(); err != nil {
		telemetry.RecordError(span, err)
		telemetry.PlannerErrorsTotal.WithLabelValues("replan", "persist").Inc()
		return nil, err
	}

	conflicts := 0
	for _, r := range resolved {
		if r.IsConflict {
			conflicts++
			p.logger.Warn().Int64("programId", r.ProgramID()).Str("origin", string(r.Origin)).Msg("reservation conflict")
		}
	}
	p.logger.Info().Int("total", len(resolved)).Int("conflicts", conflicts).Msg("replan complete")

	if err := p.notifier.NotifyObservers(ctx); err != nil {
		p.logger.Warn().Err(err).Msg("notify observers failed")
	}

	return resolved, nil
}

// rulesInScope returns every rule when scope is nil, or the single
// named rule when scope is non-nil.
func (p *Planner) rulesInScope(ctx context.Context, scope *int64) ([]rule.Rule, error) {
	if scope == nil {
		return p.rules.FindAll(ctx)
	}
	return p.rules.FindByID(ctx, *scope)
}

// Clean drops reservations whose endAt has already passed and
// persists the result, so a later crash cannot resurrect them.
func (p *Planner) Clean(ctx context.Context, nowMillis int64) error {
	release, err := p.acquire()
	if err != nil {
		return err
	}
	defer release()

	existing := p.store.Snapshot()
	out := make([]reservation.Reservation, 0, len(existing))
	dropped := 0
	for _, r := range existing {
		if r.Program.EndAt < nowMillis {
			dropped++
			continue
		}
		out = append(out, r)
	}
	if dropped == 0 {
		return nil
	}
	p.store.Replace(out)
	p.logger.Info().Int("dropped", dropped).Msg("cleaned expired reservations")
	return p.store.Save()
}

// All, Plain, Conflicts, Skips, and ByProgramID are read-only queries;
// they take no guard, since the store's list is mutated by replacement
// and readers observe a consistent snapshot for their call duration.

func (p *Planner) All(limit, offset *int) ([]reservation.Reservation, int) {
	return p.store.All(limit, offset)
}

func (p *Planner) Plain(limit, offset *int) ([]reservation.Reservation, int) {
	return p.store.Plain(limit, offset)
}

func (p *Planner) Conflicts(limit, offset *int) ([]reservation.Reservation, int) {
	return p.store.Conflicts(limit, offset)
}

func (p *Planner) Skips(limit, offset *int) ([]reservation.Reservation, int) {
	return p.store.Skips(limit, offset)
}

func (p *Planner) ByProgramID(id int64) (reservation.Reservation, bool) {
	return p.store.ByProgramID(id)
}
