// Package metrics records parse outcomes as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/eddiefleurent/tradelog/internal/models"
	"github.com/eddiefleurent/tradelog/internal/parser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the parse collectors registered on one registry.
type Metrics struct {
	ParseTotal    *prometheus.CounterVec
	FailuresTotal *prometheus.CounterVec
	LegsTotal     *prometheus.CounterVec
	ParseDuration prometheus.Histogram
}

// New registers the parse collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ParseTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tradelog_parse_total",
			Help: "Total trade lines parsed, partitioned by result",
		}, []string{"result"}), // ok/error
		FailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tradelog_parse_failures_total",
			Help: "Total trade lines rejected, partitioned by reason",
		}, []string{"reason"}),
		LegsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tradelog_parsed_legs_total",
			Help: "Total option legs produced, partitioned by spread type",
		}, []string{"spread_type"}),
		ParseDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tradelog_parse_duration_seconds",
			Help:    "Time spent parsing a single trade line",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
}

// Observe records one parse. A nil Metrics is a no-op.
func (m *Metrics) Observe(trade *models.Trade, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ParseDuration.Observe(elapsed.Seconds())

	if err != nil || trade == nil {
		m.ParseTotal.WithLabelValues("error").Inc()
		m.FailuresTotal.WithLabelValues(parser.Reason(err)).Inc()
		return
	}
	m.ParseTotal.WithLabelValues("ok").Inc()
	m.LegsTotal.WithLabelValues(string(trade.SpreadType)).Add(float64(len(trade.Legs)))
}

// ObserveResults records every result of a batch with the batch's average duration.
func (m *Metrics) ObserveResults(results []parser.Result, elapsed time.Duration) {
	if m == nil || len(results) == 0 {
		return
	}
	each := elapsed / time.Duration(len(results))
	for _, r := range results {
		m.Observe(r.Trade, r.Err, each)
	}
}
