package services

import (
	"fmt"
	"math"

	"ibnu-portfolio/pkg/models"

	"go.uber.org/zap"
)

// DecisionThreshold separates churned from retained for heuristic scores.
const DecisionThreshold = 0.5

// Classifier is the capability exposed by a trained churn artifact.
type Classifier interface {
	Predict(v models.FeatureVector) (int, error)
}

// ProbabilisticClassifier also reports the churn probability.
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(v models.FeatureVector) (float64, error)
}

// invocation is the outcome of calling the classifier: an output or the error that stopped it.
type invocation struct {
	label       int
	probability *float64
	err         error
}

// InferenceGate runs the classifier and degrades to the heuristic on any failure.
type InferenceGate struct {
	fallback FallbackPolicy
	tiers    TierPolicy
	logger   *zap.Logger
}

// NewInferenceGate validates both policies up front.
func NewInferenceGate(fallback FallbackPolicy, tiers TierPolicy, logger *zap.Logger) (*InferenceGate, error) {
	if err := fallback.Validate(); err != nil {
		return nil, err
	}
	if err := tiers.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InferenceGate{fallback: fallback, tiers: tiers, logger: logger}, nil
}

// TierPolicy returns the active tier policy.
func (g *InferenceGate) TierPolicy() TierPolicy {
	return g.tiers
}

// Predict always yields a result. A nil classifier means the artifact could not be loaded.
func (g *InferenceGate) Predict(v models.FeatureVector, classifier Classifier) models.PredictionResult {
	inv := g.invoke(v, classifier)
	if inv.err != nil {
		g.logger.Warn("classifier failed, using fallback heuristic", zap.Error(inv.err))
		return g.heuristic(v, fallbackReason(inv.err))
	}

	result := models.PredictionResult{
		Label:       inv.label,
		Probability: inv.probability,
		Provenance:  models.ProvenanceModel,
	}
	if inv.probability != nil {
		result.Tier = g.tiers.Classify(*inv.probability)
	}
	result.Recommendation = Recommendation(result)
	return result
}

func (g *InferenceGate) invoke(v models.FeatureVector, classifier Classifier) (inv invocation) {
	if classifier == nil {
		return invocation{err: ErrArtifactUnavailable}
	}
	// A foreign artifact may panic on a vector it was not trained for; that is an incompatibility too.
	defer func() {
		if r := recover(); r != nil {
			inv = invocation{err: fmt.Errorf("%w: classifier panicked: %v", ErrArtifactIncompatible, r)}
		}
	}()

	label, err := classifier.Predict(v)
	if err != nil {
		return invocation{err: err}
	}
	if label != 0 && label != 1 {
		return invocation{err: fmt.Errorf("%w: label %d is not binary", ErrArtifactIncompatible, label)}
	}
	inv = invocation{label: label}

	if pc, ok := classifier.(ProbabilisticClassifier); ok {
		p, err := pc.PredictProba(v)
		if err != nil {
			return invocation{err: err}
		}
		if math.IsNaN(p) || p < 0 || p > 1 {
			return invocation{err: fmt.Errorf("%w: probability %v outside [0,1]", ErrArtifactIncompatible, p)}
		}
		inv.probability = &p
	}
	return inv
}

func (g *InferenceGate) heuristic(v models.FeatureVector, reason string) models.PredictionResult {
	score := g.fallback.Score(v)
	label := 0
	if score > DecisionThreshold {
		label = 1
	}
	result := models.PredictionResult{
		Label:          label,
		Probability:    &score,
		Provenance:     models.ProvenanceHeuristic,
		Tier:           g.tiers.Classify(score),
		FallbackReason: reason,
	}
	result.Recommendation = Recommendation(result)
	return result
}
