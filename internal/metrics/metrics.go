package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	OnlinePlayers  prometheus.Gauge
	ActiveMatches  prometheus.Gauge
	GamesStarted   prometheus.Counter
	GamesFinished  prometheus.Counter
	Intents        *prometheus.CounterVec
	IntentLatency  prometheus.Histogram
	BotMoves       prometheus.Counter
	PersistFailure prometheus.Counter
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of connected websocket players",
		}),
		ActiveMatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_matches",
			Help:      "Number of matches held in memory",
		}),
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games that left the lobby",
		}),
		GamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that reached the final standings",
		}),
		Intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Player intents by type and outcome code",
		}, []string{"intent", "result"}),
		IntentLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "intent_latency_seconds",
			Help:      "Time spent applying an intent, fan-out included",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		BotMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_moves_total",
			Help:      "Moves made by bots",
		}),
		PersistFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_persist_failures_total",
			Help:      "Match snapshots that could not be saved",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OnlinePlayers,
		m.ActiveMatches,
		m.GamesStarted,
		m.GamesFinished,
		m.Intents,
		m.IntentLatency,
		m.BotMoves,
		m.PersistFailure,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) PlayerOnline() {
	if m != nil {
		m.OnlinePlayers.Inc()
	}
}

func (m *Metrics) PlayerOffline() {
	if m != nil {
		m.OnlinePlayers.Dec()
	}
}

func (m *Metrics) SetActiveMatches(n int) {
	if m != nil {
		m.ActiveMatches.Set(float64(n))
	}
}

func (m *Metrics) GameStarted() {
	if m != nil {
		m.GamesStarted.Inc()
	}
}

func (m *Metrics) GameFinished() {
	if m != nil {
		m.GamesFinished.Inc()
	}
}

// Intent counts one intent; result is "ok" or the error code.
func (m *Metrics) Intent(intent, result string, took time.Duration) {
	if m == nil {
		return
	}
	m.Intents.WithLabelValues(intent, result).Inc()
	m.IntentLatency.Observe(took.Seconds())
}

func (m *Metrics) BotMoved() {
	if m != nil {
		m.BotMoves.Inc()
	}
}

func (m *Metrics) PersistFailed() {
	if m != nil {
		m.PersistFailure.Inc()
	}
}
