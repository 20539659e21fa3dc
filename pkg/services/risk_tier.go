package services

import (
	"fmt"

	"ibnu-portfolio/pkg/models"
)

// Tier policy names accepted in configuration.
const (
	TierPolicyThreeTier = "three-tier"
	TierPolicyBinary    = "binary"
)

// TierCut assigns Tier to probabilities strictly above Above.
type TierCut struct {
	Above float64         `json:"above"`
	Tier  models.RiskTier `json:"tier"`
}

// TierPolicy partitions [0,1] into risk tiers. Cuts are checked in order, highest first;
// anything below the last cut is Floor.
type TierPolicy struct {
	Name  string          `json:"name"`
	Cuts  []TierCut       `json:"cuts"`
	Floor models.RiskTier `json:"floor"`
}

// ThreeTierPolicy: > 0.7 HIGH, > 0.4 MEDIUM, else LOW.
func ThreeTierPolicy() TierPolicy {
	return TierPolicy{
		Name: TierPolicyThreeTier,
		Cuts: []TierCut{
			{Above: 0.7, Tier: models.RiskTierHigh},
			{Above: 0.4, Tier: models.RiskTierMedium},
		},
		Floor: models.RiskTierLow,
	}
}

// BinaryPolicy: > 0.5 HIGH, else LOW.
func BinaryPolicy() TierPolicy {
	return TierPolicy{
		Name:  TierPolicyBinary,
		Cuts:  []TierCut{{Above: 0.5, Tier: models.RiskTierHigh}},
		Floor: models.RiskTierLow,
	}
}

// TierPolicyByName resolves a configured policy name.
func TierPolicyByName(name string) (TierPolicy, error) {
	switch name {
	case TierPolicyThreeTier, "":
		return ThreeTierPolicy(), nil
	case TierPolicyBinary:
		return BinaryPolicy(), nil
	default:
		return TierPolicy{}, fmt.Errorf("unknown tier policy %q", name)
	}
}

// Validate requires strictly descending cuts inside [0,1] so that tiers never overlap.
func (p TierPolicy) Validate() error {
	if p.Floor == "" {
		return fmt.Errorf("tier policy %q has no floor tier", p.Name)
	}
	for i, c := range p.Cuts {
		if c.Above < 0 || c.Above >= 1 {
			return fmt.Errorf("tier policy %q: cut %.2f outside [0,1)", p.Name, c.Above)
		}
		if c.Tier == "" {
			return fmt.Errorf("tier policy %q: cut %.2f has no tier", p.Name, c.Above)
		}
		if i > 0 && c.Above >= p.Cuts[i-1].Above {
			return fmt.Errorf("tier policy %q: cuts must be strictly descending", p.Name)
		}
	}
	return nil
}

// Classify returns exactly one tier for a probability.
func (p TierPolicy) Classify(probability float64) models.RiskTier {
	for _, c := range p.Cuts {
		if probability > c.Above {
			return c.Tier
		}
	}
	return p.Floor
}

// Recommendation is the retention advice shown next to a result.
func Recommendation(result models.PredictionResult) string {
	tier := result.Tier
	if tier == "" {
		tier = models.RiskTierLow
		if result.Label == 1 {
			tier = models.RiskTierHigh
		}
	}
	switch tier {
	case models.RiskTierHigh:
		return "Contact the customer immediately with a retention offer."
	case models.RiskTierMedium:
		return "Monitor engagement and send a targeted loyalty incentive."
	default:
		return "Offer cross-selling products."
	}
}
