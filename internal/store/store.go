/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package store is the authoritative in-memory reservation list plus
// its atomic persistence to a single JSON document.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/friendsincode/reserveplanner/internal/reservation"
	"github.com/rs/zerolog"
)

// ErrPersistenceFatal is returned by Load when the on-disk document
// exists but cannot be parsed. The store never discards the file or
// silently starts empty in this case.
var ErrPersistenceFatal = errors.New("reservation document is unreadable")

// Store owns the ordered reservation list and its backing file.
type Store struct {
	mu     sync.RWMutex
	path   string
	logger zerolog.Logger
	list   []reservation.Reservation
}

// New creates a store bound to path. Call Load before use.
func New(path string, logger zerolog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the persisted document. A missing file starts the store
// empty and logs a warning. A present-but-unparseable file is fatal.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn().Str("path", s.path).Msg("reservation document not found, starting empty")
		s.list = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFatal, err)
	}

	var list []reservation.Reservation
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFatal, err)
	}
	sortByStart(list)
	s.list = list
	return nil
}

// Save atomically overwrites the document with the current list:
// write to a temp file in the same directory, then rename, so a crash
// mid-write never leaves a torn document.
func (s *Store) Save() error {
	s.mu.RLock()
	list := append([]reservation.Reservation(nil), s.list...)
	s.mu.RUnlock()

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reservations: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".reserves-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp reservation file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp reservation file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp reservation file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename temp reservation file: %w", err)
	}
	return nil
}

// Replace swaps in a new list, built fresh rather than mutated in
// place, and sorts it by start time.
func (s *Store) Replace(list []reservation.Reservation) {
	sorted := append([]reservation.Reservation(nil), list...)
	sortByStart(sorted)
	s.mu.Lock()
	s.list = sorted
	s.mu.Unlock()
}

func sortByStart(list []reservation.Reservation) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Program.StartAt < list[j].Program.StartAt
	})
}

// HighestManualID returns the largest ManualID currently held, for
// restoring monotonic issuance across restarts.
func (s *Store) HighestManualID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max int64
	for _, r := range s.list {
		if r.Origin == reservation.OriginManual && r.ManualID > max {
			max = r.ManualID
		}
	}
	return max
}

// All returns the full list (or a [offset:offset+limit] slice when
// limit is given) in startAt order, and the total count before
// slicing.
func (s *Store) All(limit, offset *int) ([]reservation.Reservation, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slice(s.list, limit, offset)
}

// Plain returns non-skip, non-conflict reservations.
func (s *Store) Plain(limit, offset *int) ([]reservation.Reservation, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slice(filter(s.list, func(r reservation.Reservation) bool {
		return !r.IsSkip && !r.IsConflict
	}), limit, offset)
}

// Conflicts returns conflicted reservations.
func (s *Store) Conflicts(limit, offset *int) ([]reservation.Reservation, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slice(filter(s.list, func(r reservation.Reservation) bool {
		return r.IsConflict
	}), limit, offset)
}

// Skips returns skipped reservations.
func (s *Store) Skips(limit, offset *int) ([]reservation.Reservation, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slice(filter(s.list, func(r reservation.Reservation) bool {
		return r.IsSkip
	}), limit, offset)
}

// ByProgramID returns the reservation with the given program id, if
// any.
func (s *Store) ByProgramID(id int64) (reservation.Reservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.list {
		if r.ProgramID() == id {
			return r, true
		}
	}
	return reservation.Reservation{}, false
}

// Snapshot returns the full list by value, for callers (the façade)
// that need to build a candidate set from the current state without
// holding the store's lock.
func (s *Store) Snapshot() []reservation.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]reservation.Reservation(nil), s.list...)
}

func filter(list []reservation.Reservation, pred func(reservation.Reservation) bool) []reservation.Reservation {
	out := make([]reservation.Reservation, 0, len(list))
	for _, r := range list {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func slice(list []reservation.Reservation, limit, offset *int) ([]reservation.Reservation, int) {
	total := len(list)
	if limit == nil {
		return append([]reservation.Reservation(nil), list...), total
	}
	off := 0
	if offset != nil {
		off = *offset
	}
	if off > total {
		off = total
	}
	end := off + *limit
	if end > total {
		end = total
	}
	return append([]reservation.Reservation(nil), list[off:end]...), total
}
