// Package metrics exposes Prometheus counters for drills. A nil *Metrics is
// valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aimtrainer/internal/session"
)

const namespace = "aimtrainer"

type Metrics struct {
	registry *prometheus.Registry

	clicks            *prometheus.CounterVec
	sessionsStarted   prometheus.Counter
	sessionsCompleted prometheus.Counter
	targetsSpawned    prometheus.Counter
	targetsExpired    prometheus.Counter
	finalScore        prometheus.Histogram
	accuracy          prometheus.Histogram
	rooms             prometheus.Gauge
	viewers           prometheus.Gauge
	published         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Accepted clicks by outcome.",
		}, []string{"outcome"}),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Runs started.",
		}),
		sessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Runs that reached the end of their clock.",
		}),
		targetsSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "targets_spawned_total",
			Help:      "Targets spawned in completed runs.",
		}),
		targetsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "targets_expired_total",
			Help:      "Targets that outlived their lifespan in completed runs.",
		}),
		finalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Score at the end of a run.",
			Buckets:   prometheus.LinearBuckets(0, 500, 12),
		}),
		accuracy: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "accuracy_ratio",
			Help:      "Hit ratio at the end of a run.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Live session rooms.",
		}),
		viewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_viewers",
			Help:      "Connected websocket viewers.",
		}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_published_total",
			Help:      "Results forwarded to NATS by status.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.clicks,
		m.sessionsStarted,
		m.sessionsCompleted,
		m.targetsSpawned,
		m.targetsExpired,
		m.finalScore,
		m.accuracy,
		m.rooms,
		m.viewers,
		m.published,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Click(out session.Outcome) {
	if m == nil || !out.Accepted {
		return
	}
	if out.Hit {
		m.clicks.WithLabelValues("hit").Inc()
	} else {
		m.clicks.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}

func (m *Metrics) SessionCompleted(r session.Result) {
	if m == nil {
		return
	}
	m.sessionsCompleted.Inc()
	m.targetsSpawned.Add(float64(r.TargetsSpawned))
	m.targetsExpired.Add(float64(r.TargetsExpired))
	m.finalScore.Observe(float64(r.Score))
	m.accuracy.Observe(r.Accuracy)
}

func (m *Metrics) RoomOpened() {
	if m == nil {
		return
	}
	m.rooms.Inc()
}

func (m *Metrics) RoomClosed() {
	if m == nil {
		return
	}
	m.rooms.Dec()
}

func (m *Metrics) ViewerJoined() {
	if m == nil {
		return
	}
	m.viewers.Inc()
}

func (m *Metrics) ViewerLeft() {
	if m == nil {
		return
	}
	m.viewers.Dec()
}

// Published counts a NATS publish attempt; status is "ok" or "error".
func (m *Metrics) Published(status string) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(status).Inc()
}
