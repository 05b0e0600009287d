/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Signal is the single event type the planner emits. CorrelationID
// lets a subscriber tie a received signal back to the replan that
// produced it, in logs spanning process boundaries.
type Signal struct {
	CorrelationID string
}

// Subscriber receives replan signals.
type Subscriber chan Signal

// InProcess is a buffered-channel fan-out notifier: the default
// backend, and the one used by the test suite. Safe for concurrent
// use: Subscribe and NotifyObservers both take mu, since a replan
// goroutine can fire while an HTTP handler is subscribing.
type InProcess struct {
	mu   sync.Mutex
	subs []Subscriber
}

// NewInProcess builds an empty in-process notifier.
func NewInProcess() *InProcess {
	return &InProcess{}
}

// Subscribe registers a new subscriber with an 8-slot buffer.
func (b *InProcess) Subscribe() Subscriber {
	ch := make(Subscriber, 8)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// NotifyObservers implements Notifier. It never blocks: a full
// subscriber channel silently drops the signal, since a later replan
// supersedes it.
func (b *InProcess) NotifyObservers(_ context.Context) error {
	sig := Signal{CorrelationID: uuid.NewString()}
	b.mu.Lock()
	subs := append([]Subscriber(nil), b.subs...)
	b.mu.Unlock()
	for _, sub := range subs {
		select {
		case sub <- sig:
		default:
		}
	}
	return nil
}
