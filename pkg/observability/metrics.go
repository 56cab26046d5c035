package observability

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts practice sessions and replies.
type Metrics struct {
	registry  *prometheus.Registry
	started   *prometheus.CounterVec
	finished  *prometheus.CounterVec
	replies   *prometheus.CounterVec
	fallbacks prometheus.Counter
	score     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		started: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rehearse_sessions_started_total",
				Help: "Practice sessions started, by scenario",
			},
			[]string{"scenario"},
		),
		finished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rehearse_sessions_finished_total",
				Help: "Practice sessions that reached the report, by scenario",
			},
			[]string{"scenario"},
		),
		replies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rehearse_replies_total",
				Help: "Interviewer replies, by category and quality",
			},
			[]string{"category", "quality"},
		),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rehearse_provider_fallbacks_total",
			Help: "Reply provider failures answered with the scripted line",
		}),
		score: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rehearse_final_score",
				Help:    "Normalized final score (0..10)",
				Buckets: prometheus.LinearBuckets(0, 1, 11),
			},
			[]string{"scenario"},
		),
	}
	reg.MustRegister(m.started, m.finished, m.replies, m.fallbacks, m.score)
	return m
}

// Registry exposes the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks records metrics from engine events.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseChange: func(_ context.Context, e *domain.PhaseEvent) {
			if e.To == domain.PhaseCandidateSpeaking && e.From == domain.PhaseIdle {
				m.started.WithLabelValues(e.ScenarioID).Inc()
			}
		},
		OnReply: func(_ context.Context, e *domain.ReplyEvent) {
			m.replies.WithLabelValues(string(e.Option.Category), string(e.Option.Quality)).Inc()
		},
		OnFallback: func(context.Context, *domain.FallbackEvent) {
			m.fallbacks.Inc()
		},
		OnFinish: func(_ context.Context, e *domain.FinishEvent) {
			m.finished.WithLabelValues(e.ScenarioID).Inc()
			m.score.WithLabelValues(e.ScenarioID).Observe(float64(e.Score))
		},
	}
}

// LoggingHooks writes one structured record per engine event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCandidateLine: func(_ context.Context, e *domain.LineEvent) {
			logger.Info("candidate_line",
				"conversation_id", e.ConversationID,
				"node_id", e.NodeID,
				"dynamic", e.Dynamic,
			)
		},
		OnReply: func(_ context.Context, e *domain.ReplyEvent) {
			logger.Info("reply",
				"conversation_id", e.ConversationID,
				"node_id", e.NodeID,
				"quality", e.Option.Quality,
				"category", e.Option.Category,
				"free_text", e.FreeText,
			)
		},
		OnFallback: func(_ context.Context, e *domain.FallbackEvent) {
			logger.Warn("provider_fallback",
				"conversation_id", e.ConversationID,
				"node_id", e.NodeID,
				"error", e.Err,
			)
		},
		OnFinish: func(_ context.Context, e *domain.FinishEvent) {
			logger.Info("session_finished",
				"conversation_id", e.ConversationID,
				"scenario", e.ScenarioID,
				"score", e.Score,
				"turns", e.Turns,
			)
		},
	}
}
