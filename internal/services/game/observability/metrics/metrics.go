// Package metrics exposes the game service's Prometheus collectors.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chesstactoe"

// Move results recorded by RecordMove.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	moves             *prometheus.CounterVec
	sessionsCreated   *prometheus.CounterVec
	queueDepth        prometheus.Gauge
	activeSessions    prometheus.Gauge
	broadcastFailures prometheus.Counter
	rpcDuration       *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg. A nil reg creates a
// private registry, which is what tests want.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		moves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "moves_total",
				Help:      "Moves submitted, by result.",
			},
			[]string{"result"},
		),
		sessionsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "sessions_created_total",
				Help:      "Game sessions created, by pairing mode.",
			},
			[]string{"mode"},
		),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "directory",
			Name:      "queue_depth",
			Help:      "Players waiting in the random-pairing queue.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "directory",
			Name:      "active_sessions",
			Help:      "Game sessions held by the directory.",
		}),
		broadcastFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "broadcast_failures_total",
			Help:      "Snapshots that could not be delivered to a subscriber.",
		}),
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "grpc",
				Name:      "request_duration_seconds",
				Help:      "gRPC handler duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "code"},
		),
	}
	reg.MustRegister(
		m.moves,
		m.sessionsCreated,
		m.queueDepth,
		m.activeSessions,
		m.broadcastFailures,
		m.rpcDuration,
	)
	return m
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns collectors registered once on a process-wide registry that
// also carries the Go and process collectors.
func Default() *Metrics {
	defaultOnce.Do(func() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		defaultMetrics = New(reg)
	})
	return defaultMetrics
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordMove counts one move attempt.
func (m *Metrics) RecordMove(accepted bool) {
	if m == nil {
		return
	}
	result := ResultRejected
	if accepted {
		result = ResultAccepted
	}
	m.moves.WithLabelValues(result).Inc()
}

// RecordSessionCreated counts a new session; mode is "random" or "lobby".
func (m *Metrics) RecordSessionCreated(mode string) {
	if m == nil {
		return
	}
	m.sessionsCreated.WithLabelValues(mode).Inc()
	m.activeSessions.Inc()
}

// RecordSessionRestored counts a session reloaded from storage.
func (m *Metrics) RecordSessionRestored() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SetQueueDepth reports the current queue length.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

// RecordBroadcastFailure counts an undelivered snapshot.
func (m *Metrics) RecordBroadcastFailure() {
	if m == nil {
		return
	}
	m.broadcastFailures.Inc()
}

// ObserveRPC records the duration of a gRPC call.
func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(method, code).Observe(d.Seconds())
}
