package services

import (
	"testing"

	"ibnu-portfolio/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreeTierPolicy(t *testing.T) {
	policy := ThreeTierPolicy()
	tests := []struct {
		p    float64
		want models.RiskTier
	}{
		{0, models.RiskTierLow},
		{0.10, models.RiskTierLow},
		{0.4, models.RiskTierLow},
		{0.41, models.RiskTierMedium},
		{0.7, models.RiskTierMedium},
		{0.71, models.RiskTierHigh},
		{0.95, models.RiskTierHigh},
		{1, models.RiskTierHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.Classify(tt.p), "p=%v", tt.p)
	}
}

func TestBinaryPolicy(t *testing.T) {
	policy := BinaryPolicy()
	assert.Equal(t, models.RiskTierLow, policy.Classify(0.5))
	assert.Equal(t, models.RiskTierHigh, policy.Classify(0.51))
	assert.NotEqual(t, models.RiskTierMedium, policy.Classify(0.45))
}

// Tiers are ordered: a higher probability never lands in a lower tier.
func TestTierPartition(t *testing.T) {
	rank := map[models.RiskTier]int{models.RiskTierLow: 0, models.RiskTierMedium: 1, models.RiskTierHigh: 2}
	for _, policy := range []TierPolicy{ThreeTierPolicy(), BinaryPolicy()} {
		prev := -1
		for i := 0; i <= 1000; i++ {
			tier := policy.Classify(float64(i) / 1000)
			r, ok := rank[tier]
			require.True(t, ok, "unknown tier %q", tier)
			assert.GreaterOrEqual(t, r, prev, "%s at %d", policy.Name, i)
			prev = r
		}
	}
}

func TestTierPolicyByName(t *testing.T) {
	p, err := TierPolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, TierPolicyThreeTier, p.Name)

	p, err = TierPolicyByName(TierPolicyBinary)
	require.NoError(t, err)
	assert.Equal(t, TierPolicyBinary, p.Name)

	_, err = TierPolicyByName("quartiles")
	assert.Error(t, err)
}

func TestTierPolicyValidate(t *testing.T) {
	assert.NoError(t, ThreeTierPolicy().Validate())
	assert.NoError(t, BinaryPolicy().Validate())

	overlapping := TierPolicy{
		Name:  "overlap",
		Cuts:  []TierCut{{Above: 0.4, Tier: models.RiskTierMedium}, {Above: 0.7, Tier: models.RiskTierHigh}},
		Floor: models.RiskTierLow,
	}
	assert.Error(t, overlapping.Validate())

	outOfRange := TierPolicy{Name: "range", Cuts: []TierCut{{Above: 1, Tier: models.RiskTierHigh}}, Floor: models.RiskTierLow}
	assert.Error(t, outOfRange.Validate())

	assert.Error(t, TierPolicy{Name: "floorless"}.Validate())
}

func TestRecommendation(t *testing.T) {
	assert.Contains(t, Recommendation(models.PredictionResult{Tier: models.RiskTierHigh}), "retention offer")
	assert.Contains(t, Recommendation(models.PredictionResult{Tier: models.RiskTierMedium}), "loyalty")
	assert.Contains(t, Recommendation(models.PredictionResult{Tier: models.RiskTierLow}), "cross-selling")

	// label-only results are advised from the label
	assert.Contains(t, Recommendation(models.PredictionResult{Label: 1}), "retention offer")
	assert.Contains(t, Recommendation(models.PredictionResult{Label: 0}), "cross-selling")
}
