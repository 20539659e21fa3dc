package services

import (
	"testing"

	"ibnu-portfolio/pkg/models"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// defaultProfile is the simulator form submitted untouched.
func defaultProfile() models.CustomerProfile {
	return models.CustomerProfile{
		Gender:           "M",
		MaritalStatus:    "Married",
		CardCategory:     "Blue",
		Tenure:           36,
		Products:         2,
		InactiveMonths:   1,
		Contacts:         2,
		TransCount:       40,
		TransAmount:      2000,
		RevolvingBalance: 1000,
		UtilizationRatio: 0.1,
	}
}

func ptr[T any](v T) *T { return &v }

// stubClassifier returns fixed outputs.
type stubClassifier struct {
	label int
	err   error
	calls int
}

func (s *stubClassifier) Predict(models.FeatureVector) (int, error) {
	s.calls++
	return s.label, s.err
}

type stubProbabilistic struct {
	stubClassifier
	prob    float64
	probErr error
}

func (s *stubProbabilistic) PredictProba(models.FeatureVector) (float64, error) {
	return s.prob, s.probErr
}

type panickingClassifier struct{}

func (panickingClassifier) Predict(models.FeatureVector) (int, error) {
	panic("feature names mismatch")
}

// staticSource hands out a fixed classifier.
type staticSource struct {
	classifier Classifier
}

func (s staticSource) Classifier() Classifier { return s.classifier }

func newTestGate(t *testing.T) *InferenceGate {
	t.Helper()
	gate, err := NewInferenceGate(DefaultFallbackPolicy(), ThreeTierPolicy(), nil)
	if err != nil {
		t.Fatalf("NewInferenceGate: %v", err)
	}
	return gate
}

func newTestAdapter(t *testing.T, collected ...string) *FeatureAdapter {
	t.Helper()
	adapter, err := NewFeatureAdapter(DefaultFormOptions(collected...), DefaultFeatureValues)
	if err != nil {
		t.Fatalf("NewFeatureAdapter: %v", err)
	}
	return adapter
}
