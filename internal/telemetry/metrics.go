package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for pipeline and HTTP activity.
type Metrics struct {
	TokensTotal  *prometheus.CounterVec
	RunsTotal    *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	DraftScore   prometheus.Histogram
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers collectors on reg. Pass nil to use the default registry.
// Registering twice on the same registry panics, so build one per process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	factory := promauto.With(reg)

	return &Metrics{
		TokensTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "seodraft_tokens_total",
			Help: "Model tokens consumed, by pipeline stage and token kind",
		}, []string{"stage", "kind"}),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "seodraft_pipeline_runs_total",
			Help: "Pipeline runs by outcome (ok, discarded, or error code)",
		}, []string{"outcome"}),

		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seodraft_pipeline_duration_seconds",
			Help:    "Wall time of a pipeline run",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 120},
		}, []string{"outcome"}),

		DraftScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "seodraft_draft_score",
			Help:    "Quality scores assigned to generated drafts",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "seodraft_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seodraft_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		gatherer: gatherer,
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Observe implements Observer.
func (m *Metrics) Observe(_ context.Context, ev Event) {
	switch ev.Name {
	case EventGenerationTokens, EventScoringTokens:
		stage := ev.Stage()
		m.TokensTotal.WithLabelValues(stage, "prompt").Add(float64(ev.PromptTokens))
		m.TokensTotal.WithLabelValues(stage, "output").Add(float64(ev.OutputTokens))
	case EventPipelineOutcome:
		m.RunsTotal.WithLabelValues(ev.Outcome).Inc()
		m.RunDuration.WithLabelValues(ev.Outcome).Observe(ev.Elapsed.Seconds())
		if ev.HasScore {
			m.DraftScore.Observe(float64(ev.Score))
		}
	}
}
