package services

import (
	"time"

	"ibnu-portfolio/pkg/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PredictionMetrics counts simulator outcomes for /metrics.
type PredictionMetrics struct {
	predictions *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	duration    prometheus.Histogram
	httpTotal   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// NewPredictionMetrics registers the collectors on reg.
func NewPredictionMetrics(reg prometheus.Registerer) *PredictionMetrics {
	factory := promauto.With(reg)
	return &PredictionMetrics{
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portfolio",
				Subsystem: "churn",
				Name:      "predictions_total",
				Help:      "Churn predictions served, by provenance and risk tier",
			},
			[]string{"provenance", "tier"},
		),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portfolio",
				Subsystem: "churn",
				Name:      "fallbacks_total",
				Help:      "Predictions answered by the heuristic, by reason",
			},
			[]string{"reason"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "portfolio",
				Subsystem: "churn",
				Name:      "estimate_duration_seconds",
				Help:      "Time spent adapting and scoring one submission",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 15),
			},
		),
		httpTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portfolio",
				Subsystem: "api",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "portfolio",
				Subsystem: "api",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"method", "route"},
		),
	}
}

// ObservePrediction records one finished submission.
func (m *PredictionMetrics) ObservePrediction(result models.PredictionResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	tier := string(result.Tier)
	if tier == "" {
		tier = "none"
	}
	m.predictions.WithLabelValues(string(result.Provenance), tier).Inc()
	if result.FallbackReason != "" {
		m.fallbacks.WithLabelValues(result.FallbackReason).Inc()
	}
	m.duration.Observe(elapsed.Seconds())
}

// ObserveRequest records one HTTP request.
func (m *PredictionMetrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpTotal.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
