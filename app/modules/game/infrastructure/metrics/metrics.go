package gamemetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GameMetrics records game service and polling activity.
type GameMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)

	RecordOutcome(ctx context.Context, outcome string)
	RecordPollCycle(ctx context.Context, games, failures int, d time.Duration)
	RecordNotificationFailure(ctx context.Context, destination string)
}

type promMetrics struct {
	attempts      *prometheus.CounterVec
	successes     *prometheus.CounterVec
	failures      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	outcomes      *prometheus.CounterVec
	pollGames     prometheus.Gauge
	pollFailures  prometheus.Counter
	pollDuration  prometheus.Histogram
	notifyFailure *prometheus.CounterVec
}

// NewPrometheus registers the game collectors on reg.
func NewPrometheus(reg prometheus.Registerer) (GameMetrics, error) {
	m := &promMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dombot",
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dombot",
			Name:      "operation_success_total",
			Help:      "Service operations that completed without error.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dombot",
			Name:      "operation_failures_total",
			Help:      "Service operations that returned an error or panicked.",
		}, []string{"operation", "service"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dombot",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dombot",
			Name:      "reconcile_outcomes_total",
			Help:      "Reconciliation outcomes by kind.",
		}, []string{"outcome"}),
		pollGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dombot",
			Name:      "poll_active_games",
			Help:      "Active games seen in the last poll cycle.",
		}),
		pollFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dombot",
			Name:      "poll_game_failures_total",
			Help:      "Per-game failures during poll cycles.",
		}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dombot",
			Name:      "poll_cycle_duration_seconds",
			Help:      "Wall time of a full poll cycle.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		notifyFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dombot",
			Name:      "notification_failures_total",
			Help:      "Notifications that could not be delivered.",
		}, []string{"destination"}),
	}

	for _, c := range []prometheus.Collector{
		m.attempts, m.successes, m.failures, m.duration, m.outcomes,
		m.pollGames, m.pollFailures, m.pollDuration, m.notifyFailure,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *promMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *promMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *promMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *promMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *promMetrics) RecordOutcome(_ context.Context, outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *promMetrics) RecordPollCycle(_ context.Context, games, failures int, d time.Duration) {
	m.pollGames.Set(float64(games))
	m.pollFailures.Add(float64(failures))
	m.pollDuration.Observe(d.Seconds())
}

func (m *promMetrics) RecordNotificationFailure(_ context.Context, destination string) {
	m.notifyFailure.WithLabelValues(destination).Inc()
}
