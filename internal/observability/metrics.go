package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
// It satisfies weather.Metrics.
type Metrics struct {
	Sessions        prometheus.Gauge
	Generations     prometheus.Counter
	ViewsDerived    prometheus.Counter
	VisibleRecords  prometheus.Histogram
	SessionsExpired prometheus.Counter
}

// NewMetrics creates the dashboard metrics and registers them with reg.
// A nil reg leaves them unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weatherdash",
			Name:      "sessions",
			Help:      "Number of dashboard sessions currently held in memory.",
		}),
		Generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weatherdash",
			Name:      "generations_total",
			Help:      "Total synthetic record sets generated.",
		}),
		ViewsDerived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weatherdash",
			Name:      "views_derived_total",
			Help:      "Total derived views computed.",
		}),
		VisibleRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherdash",
			Name:      "visible_records",
			Help:      "Number of records left visible after filtering.",
			Buckets:   []float64{0, 1, 2, 5, 10, 15, 20},
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weatherdash",
			Name:      "sessions_expired_total",
			Help:      "Total sessions dropped by the idle-age prune job.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Sessions,
			m.Generations,
			m.ViewsDerived,
			m.VisibleRecords,
			m.SessionsExpired,
		)
	}
	return m
}

func (m *Metrics) SessionsActive(n int) { m.Sessions.Set(float64(n)) }

func (m *Metrics) RecordsGenerated() { m.Generations.Inc() }

func (m *Metrics) ViewDerived(visible int) {
	m.ViewsDerived.Inc()
	m.VisibleRecords.Observe(float64(visible))
}

func (m *Metrics) SessionsPruned(n int) { m.SessionsExpired.Add(float64(n)) }
