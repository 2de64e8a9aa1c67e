// Package metrics exposes job counters and the latest per-list statistics
// through a private Prometheus registry.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/bobmcallan/board-race/internal/models"
)

const namespace = "board_race"

// Phase labels.
const (
	PhaseStartOfDay = "start_of_day"
	PhaseEndOfDay   = "end_of_day"
)

// Metrics holds the collectors for one process. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cards       *prometheus.GaugeVec
	stats       *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Job runs by phase and result.",
		}, []string{"phase", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a job run.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"phase"}),
		cards: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_cards",
			Help:      "Cards in a tracked list at the last snapshot.",
		}, []string{"list"}),
		stats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_stat",
			Help:      "Latest day-over-day statistic per list.",
		}, []string{"list", "stat"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run per phase.",
		}, []string{"phase"}),
	}

	m.registry.MustRegister(
		m.runs, m.duration, m.cards, m.stats, m.lastSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRun records the outcome of one phase run. result is "ok", "skipped" or "error".
func (m *Metrics) ObserveRun(phase, result string, started time.Time) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(phase, result).Inc()
	m.duration.WithLabelValues(phase).Observe(time.Since(started).Seconds())
	if result == "ok" {
		m.lastSuccess.WithLabelValues(phase).SetToCurrentTime()
	}
}

// SetSnapshot records the card count of every list in a snapshot.
func (m *Metrics) SetSnapshot(snap models.Snapshot) {
	if m == nil {
		return
	}
	for listID, cards := range snap {
		m.cards.WithLabelValues(listID).Set(float64(len(cards)))
	}
}

// SetStats records the three statistics of every list.
func (m *Metrics) SetStats(stats map[string]models.ListStats) {
	if m == nil {
		return
	}
	for listID, st := range stats {
		for _, key := range models.StatKeys {
			m.stats.WithLabelValues(listID, string(key)).Set(float64(st.Value(key)))
		}
	}
}

// Push sends the job collectors to a Prometheus Pushgateway.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	err := push.New(url, job).
		Collector(m.runs).
		Collector(m.duration).
		Collector(m.cards).
		Collector(m.stats).
		Collector(m.lastSuccess).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
