// Package metrics holds the Prometheus collectors for the chat service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
	// OutcomeUnsaved is an answered query whose record could not be stored.
	OutcomeUnsaved = "unsaved"
)

var (
	RoutedQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weather_chat",
		Name:      "routed_queries_total",
		Help:      "Queries routed, by classification kind and outcome.",
	}, []string{"kind", "outcome"})

	RouteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "weather_chat",
		Name:      "route_duration_seconds",
		Help:      "Time spent classifying and answering a query.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "weather_chat",
		Name:      "persistence_failures_total",
		Help:      "Answered queries that could not be recorded.",
	})

	StoredRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "weather_chat",
		Name:      "stored_records",
		Help:      "Records in the store at the last maintenance run.",
	})
)

// ObserveRoute records one routed query.
func ObserveRoute(kind, outcome string, d time.Duration) {
	RoutedQueries.WithLabelValues(kind, outcome).Inc()
	RouteDuration.WithLabelValues(kind).Observe(d.Seconds())
}
