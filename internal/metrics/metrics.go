// Package metrics exposes Prometheus collectors for the harvester.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	portalRequestsTotal  *prometheus.CounterVec
	harvestItemsTotal    *prometheus.CounterVec
	stageDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		portalRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_portal_requests_total",
				Help: "Portal requests, labeled by endpoint and outcome.",
			},
			[]string{"endpoint", "outcome"},
		)

		harvestItemsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_items_total",
				Help: "Entities harvested, labeled by kind.",
			},
			[]string{"kind"},
		)

		stageDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "harvester_stage_duration_seconds",
				Help:    "Wall-clock duration of each pipeline stage.",
				Buckets: []float64{0.5, 1, 5, 15, 60, 300, 900},
			},
			[]string{"stage"},
		)
	})
}

// ObserveRequest counts one portal request.
func ObserveRequest(endpoint, outcome string) {
	if portalRequestsTotal == nil {
		return
	}
	portalRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// AddItems counts harvested entities of one kind.
func AddItems(kind string, n int) {
	if harvestItemsTotal == nil {
		return
	}
	harvestItemsTotal.WithLabelValues(kind).Add(float64(n))
}

// ObserveStage records the duration of a completed pipeline stage.
func ObserveStage(stage string, d time.Duration) {
	if stageDurationSeconds == nil {
		return
	}
	stageDurationSeconds.WithLabelValues(stage).Observe(d.Seconds())
}
