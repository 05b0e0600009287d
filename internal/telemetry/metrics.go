/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package telemetry wires Prometheus metrics and OpenTelemetry tracing
// around the planner façade's operations.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters scoped to the reservation planner's allocation outcomes.
var (
	ReservationsScheduledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_scheduled_total",
		Help: "Reservations left holding a tuner, summed over every resolver run.",
	})
	ReservationConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_conflicts_total",
		Help: "Reservations marked conflicting, summed over every resolver run.",
	})
	PlannerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_errors_total",
		Help: "Façade operation failures by operation and error kind.",
	}, []string{"operation", "kind"})
	ReplanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_replan_duration_seconds",
		Help:    "Wall-clock time spent inside a single resolver run (updateAll/updateRule/addManual).",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler exposes the process's registered metrics for scraping, on
// its own bind address separate from any other surface (there is
// none here — this module is metrics-only).
func Handler() http.Handler {
	return promhttp.Handler()
}
