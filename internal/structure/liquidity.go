package structure

import (
	"math"

	"TradeSentinel/internal/model"
)

// LiquidityZones locates resting-liquidity levels: equal highs/lows within
// the configured relative tolerance, and sweeps where a bar's extreme takes
// out the prior local extreme but the close falls back inside. Zero zones
// is a normal result.
func (d *Detector) LiquidityZones(s *model.CandleSeries) []model.LiquidityZone {
	if s == nil || s.Len() < 3 {
		return nil
	}
	var zones []model.LiquidityZone
	zones = append(zones, d.equalExtremes(s.Bars)...)
	zones = append(zones, d.sweeps(s.Bars)...)
	return zones
}

// equalExtremes pairs consecutive swing highs (or lows) whose levels agree
// within tolerance.
func (d *Detector) equalExtremes(bars []model.Candle) []model.LiquidityZone {
	var zones []model.LiquidityZone
	tol := d.cfg.EqualTolerance

	highs := swingHighs(bars)
	for i := 1; i < len(highs); i++ {
		ref := math.Max(highs[i-1], highs[i])
		if ref > 0 && math.Abs(highs[i]-highs[i-1]) <= tol*ref {
			zones = append(zones, model.LiquidityZone{Kind: model.EqualHighs, Level: (highs[i-1] + highs[i]) / 2})
		}
	}

	lows := swingLows(bars)
	for i := 1; i < len(lows); i++ {
		ref := math.Max(lows[i-1], lows[i])
		if ref > 0 && math.Abs(lows[i]-lows[i-1]) <= tol*ref {
			zones = append(zones, model.LiquidityZone{Kind: model.EqualLows, Level: (lows[i-1] + lows[i]) / 2})
		}
	}
	return zones
}

// sweeps scans the most recent bars for stop hunts: a high pushed beyond
// the prior local high with a close back below it (mirror for lows).
func (d *Detector) sweeps(bars []model.Candle) []model.LiquidityZone {
	var zones []model.LiquidityZone
	start := len(bars) - d.cfg.SweepLookback
	if start < 1 {
		start = 1
	}
	for i := start; i < len(bars); i++ {
		priorHigh := bars[0].High
		priorLow := bars[0].Low
		for _, b := range bars[:i] {
			if b.High > priorHigh {
				priorHigh = b.High
			}
			if b.Low < priorLow {
				priorLow = b.Low
			}
		}
		if bars[i].High > priorHigh && bars[i].Close < priorHigh {
			zones = append(zones, model.LiquidityZone{Kind: model.SweepHigh, Level: priorHigh})
		}
		if bars[i].Low < priorLow && bars[i].Close > priorLow {
			zones = append(zones, model.LiquidityZone{Kind: model.SweepLow, Level: priorLow})
		}
	}
	return zones
}
