package services

import (
	"fmt"

	"ibnu-portfolio/pkg/models"
)

// MaxFallbackScore is the highest score the heuristic may ever report.
const MaxFallbackScore = 0.98

// MinFallbackCap is the lowest cap a policy may configure.
const MinFallbackCap = 0.95

// FallbackPolicy holds the constants of the rule-based churn score.
// Each rule adds a non-negative weight, so no signal can lower the score.
type FallbackPolicy struct {
	Base float64 `json:"base"`
	Cap  float64 `json:"cap"`

	LowTransCountBelow  int     `json:"low_trans_count_below"`
	LowTransCountWeight float64 `json:"low_trans_count_weight"`

	InactiveAbove  int     `json:"inactive_above"` // 3 in the current form, 2 in the first release
	InactiveWeight float64 `json:"inactive_weight"`

	LowRevolvingBelow  float64 `json:"low_revolving_below"`
	LowRevolvingWeight float64 `json:"low_revolving_weight"`

	ContactsAbove  int     `json:"contacts_above"`
	ContactsWeight float64 `json:"contacts_weight"`
}

// DefaultFallbackPolicy returns the heuristic constants of the current simulator.
func DefaultFallbackPolicy() FallbackPolicy {
	return FallbackPolicy{
		Base:                0.10,
		Cap:                 MaxFallbackScore,
		LowTransCountBelow:  40,
		LowTransCountWeight: 0.35,
		InactiveAbove:       3,
		InactiveWeight:      0.25,
		LowRevolvingBelow:   500,
		LowRevolvingWeight:  0.15,
		ContactsAbove:       3,
		ContactsWeight:      0.10,
	}
}

// Validate rejects policies that could leave [0, MaxFallbackScore] or subtract risk.
func (p FallbackPolicy) Validate() error {
	if p.Base < 0 || p.Base > MaxFallbackScore {
		return fmt.Errorf("fallback base %.2f outside [0, %.2f]", p.Base, MaxFallbackScore)
	}
	if p.Cap < MinFallbackCap || p.Cap < p.Base || p.Cap > MaxFallbackScore {
		return fmt.Errorf("fallback cap %.2f outside [%.2f, %.2f]", p.Cap, MinFallbackCap, MaxFallbackScore)
	}
	weights := map[string]float64{
		"low_trans_count_weight": p.LowTransCountWeight,
		"inactive_weight":        p.InactiveWeight,
		"low_revolving_weight":   p.LowRevolvingWeight,
		"contacts_weight":        p.ContactsWeight,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("fallback %s must not be negative, got %.2f", name, w)
		}
	}
	return nil
}

// Score computes the heuristic churn probability from the same vector the model would see.
func (p FallbackPolicy) Score(v models.FeatureVector) float64 {
	score := p.Base

	if v.TotalTransCt < p.LowTransCountBelow {
		score += p.LowTransCountWeight
	}
	if v.MonthsInactive12Mon > p.InactiveAbove {
		score += p.InactiveWeight
	}
	if v.TotalRevolvingBal < p.LowRevolvingBelow {
		score += p.LowRevolvingWeight
	}
	if v.ContactsCount12Mon > p.ContactsAbove {
		score += p.ContactsWeight
	}

	if score > p.Cap {
		score = p.Cap
	}
	if score < 0 {
		score = 0
	}
	return score
}
