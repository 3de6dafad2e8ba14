package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ripple-state/ripple/pkg/ripple"
)

// metrics holds the Prometheus metrics for store activity.
type metrics struct {
	setsTotal        prometheus.Counter
	listenerFires    prometheus.Counter
	reactionsFired   *prometheus.CounterVec
	reactionsSkipped *prometheus.CounterVec
	watchers         prometheus.Gauge
}

// newMetrics registers the store metrics with the given registry.
func newMetrics(namespace string, registry prometheus.Registerer) *metrics {
	factory := promauto.With(registry)

	return &metrics{
		setsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sets_total",
			Help:      "Total number of property writes",
		}),

		listenerFires: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listener_fires_total",
			Help:      "Total number of synchronous listener invocations",
		}),

		reactionsFired: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_fired_total",
			Help:      "Coalesced reactions that ran with all dependencies defined",
		}, []string{"reaction"}),

		reactionsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_skipped_total",
			Help:      "Coalesced reactions skipped because a dependency was undefined",
		}, []string{"reaction"}),

		watchers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watchers",
			Help:      "Active WebSocket watch connections",
		}),
	}
}

// hooks returns store hooks that feed these metrics.
func (m *metrics) hooks() ripple.Hooks {
	return ripple.Hooks{
		OnSet:          func(string) { m.setsTotal.Inc() },
		OnListenerFire: func(string) { m.listenerFires.Inc() },
		OnReactionFire: func(name string) {
			m.reactionsFired.WithLabelValues(reactionLabel(name)).Inc()
		},
		OnReactionSkip: func(name string) {
			m.reactionsSkipped.WithLabelValues(reactionLabel(name)).Inc()
		},
	}
}

// reactionLabel keeps unnamed reactions from producing an empty label.
func reactionLabel(name string) string {
	if name == "" {
		return "unnamed"
	}
	return name
}
