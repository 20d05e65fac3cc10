package structure

import "TradeSentinel/internal/model"

// swingHighs returns the high prices of fractal swing highs in bar order.
// A bar is a swing high when its high exceeds both neighbours.
func swingHighs(bars []model.Candle) []float64 {
	var highs []float64
	for i := 1; i < len(bars)-1; i++ {
		if bars[i].High > bars[i-1].High && bars[i].High > bars[i+1].High {
			highs = append(highs, bars[i].High)
		}
	}
	return highs
}

// swingLows returns the low prices of fractal swing lows in bar order.
func swingLows(bars []model.Candle) []float64 {
	var lows []float64
	for i := 1; i < len(bars)-1; i++ {
		if bars[i].Low < bars[i-1].Low && bars[i].Low < bars[i+1].Low {
			lows = append(lows, bars[i].Low)
		}
	}
	return lows
}

// strictlyIncreasing reports whether the last n values form a strictly
// increasing sequence. Fewer than n values is indeterminate (false).
func strictlyIncreasing(vals []float64, n int) bool {
	if len(vals) < n {
		return false
	}
	vals = vals[len(vals)-n:]
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			return false
		}
	}
	return true
}

func strictlyDecreasing(vals []float64, n int) bool {
	if len(vals) < n {
		return false
	}
	vals = vals[len(vals)-n:]
	for i := 1; i < len(vals); i++ {
		if vals[i] >= vals[i-1] {
			return false
		}
	}
	return true
}

// Bias classifies the higher-timeframe directional bias from swing structure.
// Bullish when both the recent swing highs and swing lows are strictly
// increasing, Bearish when both strictly decreasing, Neutral otherwise.
// A series shorter than the policy minimum is Neutral, never an error.
func (d *Detector) Bias(s *model.CandleSeries) model.Bias {
	if s == nil || s.Len() < d.cfg.MinBiasBars {
		return model.BiasNeutral
	}
	highs := swingHighs(s.Bars)
	lows := swingLows(s.Bars)

	n := d.cfg.BiasSwings
	switch {
	case strictlyIncreasing(highs, n) && strictlyIncreasing(lows, n):
		return model.BiasBullish
	case strictlyDecreasing(highs, n) && strictlyDecreasing(lows, n):
		return model.BiasBearish
	default:
		return model.BiasNeutral
	}
}
