package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigilant_classifications_total",
			Help: "Messages classified, by resulting tier",
		},
		[]string{"classification"},
	)

	RiskScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vigilant_risk_score",
			Help:    "Distribution of final risk scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	ReportsSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigilant_reports_saved_total",
			Help: "Scam reports persisted, by tier",
		},
		[]string{"classification"},
	)

	PersistenceFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigilant_persistence_failures_total",
			Help: "Report saves that failed after classification succeeded",
		},
	)

	StatsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigilant_stats_cache_lookups_total",
			Help: "Aggregate stats cache lookups",
		},
		[]string{"result"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vigilant_store_breaker_state",
			Help: "Report store circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)
