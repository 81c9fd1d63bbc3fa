package enrich

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts pipeline outcomes. A nil *Metrics records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
	tracks   prometheus.Counter
}

// NewMetrics registers the enrichment collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soundgraph",
			Subsystem: "enrich",
			Name:      "outcomes_total",
			Help:      "Enrichment outcomes by kind and deciding stage.",
		}, []string{"kind", "stage"}),
		tracks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soundgraph",
			Subsystem: "enrich",
			Name:      "tracks_added_total",
			Help:      "Tracks linked to soundtracks.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.outcomes, m.tracks)
	}
	return m
}

func (m *Metrics) observe(outcome Outcome) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(string(outcome.Kind), outcome.Stage).Inc()
	if outcome.Kind == OutcomeMerged {
		m.tracks.Add(float64(outcome.Tracks.Added))
	}
}
