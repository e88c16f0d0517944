package reminder

import "github.com/prometheus/client_golang/prometheus"

const (
	stageGenerate = "generate"
	stageMark     = "mark"
	stageLookup   = "lookup"
)

// Metrics - engine counters. A nil *Metrics records nothing.
type Metrics struct {
	Scans    prometheus.Counter
	Issued   prometheus.Counter
	Failures *prometheus.CounterVec
}

// NewMetrics creates the engine counters and registers them on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Scans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "scans_total",
			Help:      "Total number of reminder scans",
		}),
		Issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "issued_total",
			Help:      "Total number of reminders issued",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "failures_total",
			Help:      "Total number of reminders that could not be issued",
		}, []string{"stage"}),
	}
	if reg != nil {
		reg.MustRegister(m.Scans, m.Issued, m.Failures)
	}
	return m
}

func (m *Metrics) scan() {
	if m != nil {
		m.Scans.Inc()
	}
}

func (m *Metrics) issued() {
	if m != nil {
		m.Issued.Inc()
	}
}

func (m *Metrics) failed(stage string) {
	if m != nil {
		m.Failures.WithLabelValues(stage).Inc()
	}
}
