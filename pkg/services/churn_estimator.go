package services

import (
	"time"

	"ibnu-portfolio/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClassifierSource hands out the current classifier handle, or nil when none is available.
type ClassifierSource interface {
	Classifier() Classifier
}

// Estimate is everything produced for one form submission.
type Estimate struct {
	SubmissionID string                  `json:"submission_id"`
	Features     models.FeatureVector    `json:"features"`
	Result       models.PredictionResult `json:"result"`
	Trace        []models.Stage          `json:"trace"`
}

// ChurnEstimator runs the adapt-then-infer chain of the simulator.
type ChurnEstimator struct {
	adapter *FeatureAdapter
	gate    *InferenceGate
	source  ClassifierSource
	metrics *PredictionMetrics
	monitor *MonitoringService
	logger  *zap.Logger
}

// NewChurnEstimator wires the chain. metrics and monitor may be nil.
func NewChurnEstimator(adapter *FeatureAdapter, gate *InferenceGate, source ClassifierSource, metrics *PredictionMetrics, monitor *MonitoringService, logger *zap.Logger) *ChurnEstimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChurnEstimator{
		adapter: adapter,
		gate:    gate,
		source:  source,
		metrics: metrics,
		monitor: monitor,
		logger:  logger,
	}
}

// Adapter exposes the feature adapter, mainly for form rendering.
func (e *ChurnEstimator) Adapter() *FeatureAdapter {
	return e.adapter
}

// Gate exposes the inference gate.
func (e *ChurnEstimator) Gate() *InferenceGate {
	return e.gate
}

// Estimate scores one profile. The only error is a ConfigurationDefectError from the adapter;
// classifier failures are absorbed by the gate.
func (e *ChurnEstimator) Estimate(profile models.CustomerProfile) (*Estimate, error) {
	start := time.Now()
	est := &Estimate{
		SubmissionID: uuid.NewString(),
		Trace:        []models.Stage{models.StageIdle},
	}
	log := e.logger.With(zap.String("submission_id", est.SubmissionID))

	est.Trace = append(est.Trace, models.StageAdapting)
	features, err := e.adapter.Adapt(profile)
	if err != nil {
		log.Error("feature adaptation failed", zap.Error(err))
		return nil, err
	}
	est.Features = features

	est.Trace = append(est.Trace, models.StageInferring)
	var classifier Classifier
	if e.source != nil {
		classifier = e.source.Classifier()
	}
	est.Result = e.gate.Predict(features, classifier)

	if est.Result.IsFallback() {
		est.Trace = append(est.Trace, models.StageModelFailed, models.StageFallback)
	} else {
		est.Trace = append(est.Trace, models.StageModelSucceeded)
	}
	est.Trace = append(est.Trace, models.StageResultReady)

	elapsed := time.Since(start)
	e.metrics.ObservePrediction(est.Result, elapsed)
	e.monitor.RecordPrediction(est.Result)

	fields := []zap.Field{
		zap.String("provenance", string(est.Result.Provenance)),
		zap.String("tier", string(est.Result.Tier)),
		zap.Int("label", est.Result.Label),
		zap.Duration("elapsed", elapsed),
	}
	if est.Result.FallbackReason != "" {
		fields = append(fields, zap.String("fallback_reason", est.Result.FallbackReason))
	}
	log.Info("churn estimate ready", fields...)
	log.Debug("submission trace", zap.Any("trace", est.Trace))

	return est, nil
}
