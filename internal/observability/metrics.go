// Package observability exposes Prometheus instruments for the data access layer.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded for repository writes.
const (
	OutcomeCreated          = "created"
	OutcomeDuplicateIgnored = "duplicate_ignored"
	OutcomeValidationFailed = "validation_failed"
	OutcomeConstraintFailed = "constraint_failed"
	OutcomeError            = "error"
)

// Outcomes recorded for repository reads.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeListed   = "listed"
)

var (
	addsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_data",
		Subsystem: "repository",
		Name:      "adds_total",
		Help:      "Repository Add calls partitioned by entity and outcome.",
	}, []string{"entity", "outcome"})
	lookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_data",
		Subsystem: "repository",
		Name:      "lookups_total",
		Help:      "Repository reads partitioned by entity and outcome.",
	}, []string{"entity", "outcome"})
	lastWriteGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fitness_data",
		Subsystem: "repository",
		Name:      "last_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent row created per entity.",
	}, []string{"entity"})
	scopesClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness_data",
		Subsystem: "dal",
		Name:      "scopes_closed_total",
		Help:      "Data access scopes released.",
	})
)

func init() {
	prometheus.MustRegister(addsTotal, lookupsTotal, lastWriteGauge, scopesClosed)
}

// RecordAdd counts one Add call with its outcome.
func RecordAdd(entity, outcome string) {
	addsTotal.WithLabelValues(entity, outcome).Inc()
}

// RecordLookup counts one read with its outcome.
func RecordLookup(entity, outcome string) {
	lookupsTotal.WithLabelValues(entity, outcome).Inc()
}

// RecordWrite updates the per-entity write watermark.
func RecordWrite(entity string, ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastWriteGauge.WithLabelValues(entity).Set(float64(ts.Unix()))
}

// RecordScopeClosed counts a released data access scope.
func RecordScopeClosed() {
	scopesClosed.Inc()
}
