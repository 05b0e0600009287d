/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package notify is the planner's IPC collaborator: a fire-and-forget
// signal emitted after every successful re-plan, carrying nothing but
// a correlation id.
package notify

import "context"

// Notifier is the consumed IPC capability.
type Notifier interface {
	NotifyObservers(ctx context.Context) error
}
