package fetch

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts requests, retries and pacing waits. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	retries  prometheus.Counter
	pacing   prometheus.Counter
}

// NewMetrics registers the fetch collectors with reg. A nil registerer yields
// unregistered collectors that still count.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soundgraph",
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "HTTP requests issued to remote services, by response status (0 for transport errors).",
		}, []string{"status"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soundgraph",
			Subsystem: "fetch",
			Name:      "retries_total",
			Help:      "Requests retried after a retryable failure.",
		}),
		pacing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soundgraph",
			Subsystem: "fetch",
			Name:      "pacing_seconds_total",
			Help:      "Time spent waiting for the minimum interval between successful requests.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.retries, m.pacing)
	}
	return m
}

func (m *Metrics) observeStatus(status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (m *Metrics) observeRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Metrics) observePacing(wait time.Duration) {
	if m == nil || wait <= 0 {
		return
	}
	m.pacing.Add(wait.Seconds())
}
