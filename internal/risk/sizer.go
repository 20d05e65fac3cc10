package risk

import (
	"fmt"
	"math"
)

// Instrument describes the monetary geometry of the traded instrument.
type Instrument struct {
	UnitValue    float64 // account-currency value of one price unit per 1.0 lot
	LotStep      float64 // minimum tradable increment, e.g. 0.01
	LotPrecision int     // decimal places of the reported size
}

// DefaultInstrument returns the XAU/USD geometry: one lot is 100 oz, so a
// $1 move is worth $100 per lot, sized in 0.01-lot steps.
func DefaultInstrument() Instrument {
	return Instrument{UnitValue: 100, LotStep: 0.01, LotPrecision: 2}
}

// Sizer converts an account's risk budget and a signal's stop distance
// into a position size.
type Sizer struct {
	instrument Instrument
}

// NewSizer creates a Sizer for the given instrument.
func NewSizer(instrument Instrument) *Sizer {
	return &Sizer{instrument: instrument}
}

// Size computes (balance × risk%) / (stop distance × unit value), floored
// to the instrument's lot step and rounded to its precision. The result
// never goes below one lot step, which means an account too small to
// afford even the minimum lot at the given stop distance ends up risking
// more than its configured percent. Non-positive inputs are rejected;
// this is where a zero stop distance dies instead of dividing by zero.
func (s *Sizer) Size(balance, riskPercent, stopDistance float64) (float64, error) {
	if balance <= 0 {
		return 0, fmt.Errorf("balance must be positive, got %.2f", balance)
	}
	if riskPercent <= 0 {
		return 0, fmt.Errorf("risk percent must be positive, got %.3f", riskPercent)
	}
	if stopDistance <= 0 {
		return 0, fmt.Errorf("stop distance must be positive, got %.5f", stopDistance)
	}
	if s.instrument.UnitValue <= 0 || s.instrument.LotStep <= 0 {
		return 0, fmt.Errorf("invalid instrument: unit value %.5f, lot step %.5f",
			s.instrument.UnitValue, s.instrument.LotStep)
	}

	riskAmount := balance * riskPercent / 100
	raw := riskAmount / (stopDistance * s.instrument.UnitValue)

	lots := math.Floor(raw/s.instrument.LotStep) * s.instrument.LotStep
	if lots < s.instrument.LotStep {
		lots = s.instrument.LotStep
	}

	scale := math.Pow(10, float64(s.instrument.LotPrecision))
	return math.Round(lots*scale) / scale, nil
}
