package services

import (
	"testing"

	"ibnu-portfolio/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heuristicVector(t *testing.T, transCt, inactive int, revolving float64, contacts int) models.FeatureVector {
	t.Helper()
	p := defaultProfile()
	p.TransCount = transCt
	p.InactiveMonths = inactive
	p.RevolvingBalance = revolving
	p.Contacts = contacts
	v, err := newTestAdapter(t).Adapt(p)
	require.NoError(t, err)
	return v
}

func TestFallbackScoreNoSignals(t *testing.T) {
	score := DefaultFallbackPolicy().Score(heuristicVector(t, 40, 1, 1000, 2))
	assert.InDelta(t, 0.10, score, 1e-9)
}

func TestFallbackScoreAllSignals(t *testing.T) {
	score := DefaultFallbackPolicy().Score(heuristicVector(t, 20, 5, 200, 4))
	assert.InDelta(t, 0.95, score, 1e-9)
}

func TestFallbackScoreEarlyInactivityThreshold(t *testing.T) {
	policy := DefaultFallbackPolicy()
	policy.InactiveAbove = 2

	v := heuristicVector(t, 40, 3, 1000, 2)
	assert.InDelta(t, 0.35, policy.Score(v), 1e-9)
	assert.InDelta(t, 0.10, DefaultFallbackPolicy().Score(v), 1e-9)
}

func TestFallbackScoreClamped(t *testing.T) {
	policy := DefaultFallbackPolicy()
	policy.LowTransCountWeight = 0.6
	require.NoError(t, policy.Validate())

	score := policy.Score(heuristicVector(t, 0, 12, 0, 6))
	assert.Equal(t, MaxFallbackScore, score)
}

// Scores stay within [0, 0.98] and never decrease as a risk signal strengthens.
func TestFallbackBoundedAndMonotone(t *testing.T) {
	policy := DefaultFallbackPolicy()
	adapter := newTestAdapter(t)

	score := func(transCt, inactive int, revolving float64, contacts int) float64 {
		p := defaultProfile()
		p.TransCount, p.InactiveMonths, p.RevolvingBalance, p.Contacts = transCt, inactive, revolving, contacts
		v, err := adapter.Adapt(p)
		require.NoError(t, err)
		s := policy.Score(v)
		require.GreaterOrEqual(t, s, 0.0)
		require.LessOrEqual(t, s, MaxFallbackScore)
		return s
	}

	revolvings := []float64{0, 250, 499, 500, 1500, 3000}
	for contacts := 0; contacts <= 6; contacts++ {
		for _, rev := range revolvings {
			for inactive := 0; inactive <= 12; inactive++ {
				prev := score(150, inactive, rev, contacts)
				for transCt := 149; transCt >= 0; transCt -= 7 {
					cur := score(transCt, inactive, rev, contacts)
					assert.GreaterOrEqual(t, cur, prev, "fewer transactions lowered the score")
					prev = cur
				}
			}
		}
	}

	for transCt := 0; transCt <= 150; transCt += 15 {
		prev := score(transCt, 0, 1000, 2)
		for inactive := 1; inactive <= 12; inactive++ {
			cur := score(transCt, inactive, 1000, 2)
			assert.GreaterOrEqual(t, cur, prev, "more inactivity lowered the score")
			prev = cur
		}

		prev = score(transCt, 1, 3000, 2)
		for rev := 2900.0; rev >= 0; rev -= 100 {
			cur := score(transCt, 1, rev, 2)
			assert.GreaterOrEqual(t, cur, prev, "lower revolving balance lowered the score")
			prev = cur
		}
	}
}

func TestFallbackPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultFallbackPolicy().Validate())
	lowest := DefaultFallbackPolicy()
	lowest.Cap = MinFallbackCap
	assert.NoError(t, lowest.Validate())

	tests := []struct {
		name   string
		mutate func(*FallbackPolicy)
	}{
		{"negative base", func(p *FallbackPolicy) { p.Base = -0.1 }},
		{"cap above ceiling", func(p *FallbackPolicy) { p.Cap = 0.99 }},
		{"cap below base", func(p *FallbackPolicy) { p.Cap = 0.05 }},
		{"cap below range", func(p *FallbackPolicy) { p.Cap = 0.5 }},
		{"cap just under floor", func(p *FallbackPolicy) { p.Cap = 0.949 }},
		{"subtractive signal", func(p *FallbackPolicy) { p.InactiveWeight = -0.25 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultFallbackPolicy()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}
