package strategy

import (
	"fmt"
	"sort"
)

// Weights is the fixed-weight confidence split. The exact values are
// policy, not law: source variants disagreed, so they live in config and
// are validated to sum to at most 100.
type Weights struct {
	Bias         int
	Shift        int
	Liquidity    int
	POI          int
	Confirmation int
}

// DefaultWeights is the canonical split: bias 25, structure shift 25,
// liquidity 15, POI 20, confirmation 15 (sums to 100).
func DefaultWeights() Weights {
	return Weights{Bias: 25, Shift: 25, Liquidity: 15, POI: 20, Confirmation: 15}
}

func (w Weights) sum() int {
	return w.Bias + w.Shift + w.Liquidity + w.POI + w.Confirmation
}

// TierPolicy is a named risk-and-threshold profile for an account tier.
type TierPolicy struct {
	RiskPercent   float64
	MinConfidence int
}

// Config holds the signal engine policy: confidence weights, the target
// ladder, the stop placement buffer, and the account tier table.
type Config struct {
	Weights    Weights
	Ladder     []float64 // ascending risk multiples, e.g. 3R/6R/10R
	StopBuffer float64   // price units placed beyond the POI boundary
	Tiers      map[string]TierPolicy
}

// DefaultConfig returns the canonical engine policy. The micro tier runs a
// strict 95 threshold because a minimal-capital account tolerates no
// losing trades; all other tiers gate at 85.
func DefaultConfig() Config {
	return Config{
		Weights:    DefaultWeights(),
		Ladder:     []float64{3, 6, 10},
		StopBuffer: 0.05,
		Tiers: map[string]TierPolicy{
			"micro":  {RiskPercent: 5, MinConfidence: 95},
			"phase1": {RiskPercent: 2, MinConfidence: 85},
			"phase2": {RiskPercent: 1.25, MinConfidence: 85},
			"funded": {RiskPercent: 0.5, MinConfidence: 85},
		},
	}
}

// Validate checks the policy invariants.
func (c Config) Validate() error {
	if s := c.Weights.sum(); s > 100 {
		return fmt.Errorf("confidence weights sum to %d, must not exceed 100", s)
	}
	if len(c.Ladder) == 0 {
		return fmt.Errorf("target ladder must have at least one risk multiple")
	}
	if !sort.Float64sAreSorted(c.Ladder) {
		return fmt.Errorf("target ladder must be ascending: %v", c.Ladder)
	}
	for i, r := range c.Ladder {
		if r <= 0 {
			return fmt.Errorf("target ladder entry %d must be positive, got %.2f", i+1, r)
		}
	}
	if c.StopBuffer < 0 {
		return fmt.Errorf("stop buffer must not be negative, got %.5f", c.StopBuffer)
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("at least one account tier must be configured")
	}
	for name, tier := range c.Tiers {
		if tier.RiskPercent <= 0 {
			return fmt.Errorf("tier %s: risk percent must be positive", name)
		}
		if tier.MinConfidence < 0 || tier.MinConfidence > 100 {
			return fmt.Errorf("tier %s: min confidence %d out of [0,100]", name, tier.MinConfidence)
		}
	}
	return nil
}
