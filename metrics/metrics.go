// Package metrics exposes poller and broadcast counters on a private
// Prometheus registry.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics.
type Metrics struct {
	PollsTotal           atomic.Uint64
	PollErrors           atomic.Uint64
	SnapshotReplacements atomic.Uint64
	PollsUnchanged       atomic.Uint64
	BroadcastsTotal      atomic.Uint64
	CameraRefreshes      atomic.Uint64
	ArchiveRuns          atomic.Uint64

	registry *prometheus.Registry
}

// New creates a Metrics instance. wsClients reports the current number of
// connected dashboard websocket clients (nil is allowed).
func New(wsClients func() int) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "firewatch_polls_total",
			Help: "Total sequence polls against the platform API",
		},
		func() float64 { return float64(m.PollsTotal.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "firewatch_poll_errors_total",
			Help: "Total failed sequence polls",
		},
		func() float64 { return float64(m.PollErrors.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "firewatch_snapshot_replacements_total",
			Help: "Polls whose snapshot materially changed and was swapped in",
		},
		func() float64 { return float64(m.SnapshotReplacements.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "firewatch_polls_unchanged_total",
			Help: "Polls suppressed by change detection",
		},
		func() float64 { return float64(m.PollsUnchanged.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "firewatch_broadcasts_total",
			Help: "Snapshot-update messages pushed to websocket clients",
		},
		func() float64 { return float64(m.BroadcastsTotal.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "firewatch_camera_refreshes_total",
			Help: "Camera registry refreshes",
		},
		func() float64 { return float64(m.CameraRefreshes.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "firewatch_archive_runs_total",
			Help: "Archive sweeps written to Firestore",
		},
		func() float64 { return float64(m.ArchiveRuns.Load()) },
	))

	if wsClients != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "firewatch_ws_clients",
				Help: "Connected dashboard websocket clients",
			},
			func() float64 { return float64(wsClients()) },
		))
	}

	return m
}

// Handler returns the Prometheus HTTP handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
