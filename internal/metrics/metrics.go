// Package metrics exposes run outcomes to Prometheus. A nil *Registry is
// valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockScorer/internal/model"
)

// Registry holds the scorer's metrics on a private Prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	Runs            *prometheus.CounterVec
	Tickers         *prometheus.CounterVec
	Requests        prometheus.Counter
	RunDuration     prometheus.Histogram
	LastRunUnix     prometheus.Gauge
	CompositeScores *prometheus.GaugeVec
}

// New creates a registry with all scorer metrics registered.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scorer_runs_total",
				Help: "Total batch runs by outcome (complete or aborted)",
			},
			[]string{"outcome"},
		),

		Tickers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scorer_tickers_total",
				Help: "Tickers evaluated by result (live, reference, failed, skipped)",
			},
			[]string{"result"},
		),

		Requests: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scorer_upstream_requests_total",
				Help: "Upstream market-data requests made",
			},
		),

		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scorer_run_duration_seconds",
				Help:    "Wall time of a batch run in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
		),

		LastRunUnix: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scorer_last_run_timestamp_seconds",
				Help: "Unix time of the last completed run",
			},
		),

		CompositeScores: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scorer_composite_score",
				Help: "Latest composite score per ticker and horizon",
			},
			[]string{"ticker", "horizon"},
		),
	}
	r.reg.MustRegister(r.Runs, r.Tickers, r.Requests, r.RunDuration, r.LastRunUnix, r.CompositeScores)
	return r
}

// Ticker records one ticker outcome.
func (r *Registry) Ticker(result string) {
	if r == nil {
		return
	}
	r.Tickers.WithLabelValues(result).Inc()
}

// ObserveRun records the aggregate outcome of a finished run.
func (r *Registry) ObserveRun(rep *model.RunReport) {
	if r == nil || rep == nil {
		return
	}
	outcome := "complete"
	if rep.Aborted {
		outcome = "aborted"
	}
	r.Runs.WithLabelValues(outcome).Inc()
	r.Requests.Add(float64(rep.Requests))
	r.RunDuration.Observe(rep.Duration.Seconds())
	r.LastRunUnix.Set(float64(rep.Timestamp.Add(rep.Duration).Unix()))

	r.CompositeScores.Reset()
	for _, res := range rep.Results {
		r.CompositeScores.WithLabelValues(res.Snapshot.Ticker, "short").Set(res.Composite.Short)
		r.CompositeScores.WithLabelValues(res.Snapshot.Ticker, "mid").Set(res.Composite.Mid)
		r.CompositeScores.WithLabelValues(res.Snapshot.Ticker, "long").Set(res.Composite.Long)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
