package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes application-level instruments. A nil receiver is
// safe everywhere, tests pass nil instead of wiring a registry.
type Metrics struct {
	registry *prometheus.Registry

	weeksChecked     prometheus.Counter
	missingDetected  prometheus.Counter
	ordersBackfilled prometheus.Counter
	backfillFailures prometheus.Counter
	checkDuration    prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		weeksChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weekplan_weeks_checked_total",
			Help: "Reconciliation checks run.",
		}),
		missingDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weekplan_missing_orders_total",
			Help: "Expected orders found missing across all checks.",
		}),
		ordersBackfilled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weekplan_orders_backfilled_total",
			Help: "Orders inserted by backfill.",
		}),
		backfillFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weekplan_backfill_failures_total",
			Help: "Orders that failed to insert during backfill.",
		}),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "weekplan_check_duration_seconds",
			Help:    "Wall time of one reconciliation check.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(
		m.weeksChecked,
		m.missingDetected,
		m.ordersBackfilled,
		m.backfillFailures,
		m.checkDuration,
	)
	return m
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordCheck(missing int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.weeksChecked.Inc()
	m.missingDetected.Add(float64(missing))
	m.checkDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) RecordBackfill(created, failed int) {
	if m == nil {
		return
	}
	m.ordersBackfilled.Add(float64(created))
	m.backfillFailures.Add(float64(failed))
}
