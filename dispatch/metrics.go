package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of the lines counter.
const (
	OutcomeHandled    = "handled"
	OutcomeUnhandled  = "unhandled"
	OutcomeUnresolved = "unresolved"
	OutcomeFailed     = "failed"
)

// Metrics holds the prometheus collectors of a Dispatcher.
type Metrics struct {
	lines         *prometheus.CounterVec
	handlerErrors *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	sent          *prometheus.CounterVec
}

// NewMetrics creates the collectors under namespace and registers them with
// reg. A nil reg uses the default prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		lines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "lines_total",
				Help:      "Lines read by the dispatcher.",
			},
			[]string{"source", "outcome"},
		),
		handlerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "handler_errors_total",
				Help:      "Packet handlers that returned an error.",
			},
			[]string{"packet"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "line_duration_seconds",
				Help:      "Time spent reading and handling a line.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"outcome"},
		),
		sent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "outbound",
				Name:      "packets_total",
				Help:      "Packets written by the outbound side.",
			},
			[]string{"packet", "success"},
		),
	}
	for _, c := range []prometheus.Collector{m.lines, m.handlerErrors, m.duration, m.sent} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordLine(source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.lines.WithLabelValues(source, outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) recordHandlerError(packet string) {
	if m == nil {
		return
	}
	m.handlerErrors.WithLabelValues(packet).Inc()
}

func (m *Metrics) recordSent(packet string, success bool) {
	if m == nil {
		return
	}
	label := "false"
	if success {
		label = "true"
	}
	m.sent.WithLabelValues(packet, label).Inc()
}
