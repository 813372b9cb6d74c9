package negotiation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects negotiation-level Prometheus metrics. All observe methods
// are nil-safe, so components can run without a registry attached.
type Metrics struct {
	roundsTotal      *prometheus.CounterVec
	divergencesTotal prometheus.Counter
	preferencesTotal prometheus.Counter
	transitionsTotal *prometheus.CounterVec
	roundDuration    prometheus.Histogram
}

// NewMetrics registers the negotiation metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		roundsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "macd",
			Subsystem: "negotiation",
			Name:      "rounds_total",
			Help:      "Collaborate rounds completed, by outcome.",
		}, []string{"outcome"}),
		divergencesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "macd",
			Subsystem: "negotiation",
			Name:      "divergences_total",
			Help:      "Proposals that failed to reach unanimity.",
		}),
		preferencesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "macd",
			Subsystem: "negotiation",
			Name:      "preferences_total",
			Help:      "Divergences endorsed by the user during feedback.",
		}),
		transitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "macd",
			Subsystem: "negotiation",
			Name:      "stage_transitions_total",
			Help:      "Stage machine transitions, by stage entered.",
		}, []string{"stage"}),
		roundDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "macd",
			Subsystem: "negotiation",
			Name:      "round_duration_seconds",
			Help:      "Wall time of a single Collaborate round.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}
}

func (m *Metrics) observeRound(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.roundsTotal.WithLabelValues(outcome).Inc()
	m.roundDuration.Observe(seconds)
}

func (m *Metrics) observeDivergence() {
	if m == nil {
		return
	}
	m.divergencesTotal.Inc()
}

func (m *Metrics) observePreference() {
	if m == nil {
		return
	}
	m.preferencesTotal.Inc()
}

func (m *Metrics) observeTransition(stage Stage) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(string(stage)).Inc()
}
