package services

import (
	"testing"
	"time"

	"ibnu-portfolio/pkg/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPredictionMetrics(reg)

	score := 0.95
	m.ObservePrediction(models.PredictionResult{
		Provenance:     models.ProvenanceHeuristic,
		Probability:    &score,
		Tier:           models.RiskTierHigh,
		FallbackReason: ReasonArtifactIncompatible,
	}, time.Millisecond)
	m.ObservePrediction(models.PredictionResult{Provenance: models.ProvenanceModel, Label: 1}, time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/churn/predict", "200", 3*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues("heuristic", "HIGH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues("model", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks.WithLabelValues(ReasonArtifactIncompatible)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpTotal.WithLabelValues("POST", "/api/v1/churn/predict", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "portfolio_churn_predictions_total")
	assert.Contains(t, names, "portfolio_churn_estimate_duration_seconds")

	var nilMetrics *PredictionMetrics
	assert.NotPanics(t, func() {
		nilMetrics.ObservePrediction(models.PredictionResult{}, 0)
		nilMetrics.ObserveRequest("GET", "/", "200", 0)
	})
}
