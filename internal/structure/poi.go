package structure

import "TradeSentinel/internal/model"

// POI locates at most one point of interest consistent with the bias.
// Selection priority is OrderBlock > BreakerBlock > FairValueGap: any
// order block wins outright, breaker blocks apply only absent an order
// block, and so on. Within a kind the most recent candidate wins.
// Nil means no candidate this evaluation.
func (d *Detector) POI(s *model.CandleSeries, bias model.Bias) *model.POI {
	dir, ok := bias.Direction()
	if !ok {
		return nil
	}
	if s == nil || s.Len() < 3 {
		return nil
	}
	bars := s.Bars
	if len(bars) > d.cfg.POILookback {
		bars = bars[len(bars)-d.cfg.POILookback:]
	}

	if p := latestOrderBlock(bars, dir); p != nil {
		return p
	}
	if p := latestBreakerBlock(bars, dir); p != nil {
		return p
	}
	return latestFairValueGap(bars, dir)
}

// latestOrderBlock finds the most recent opposite-coloured candle that the
// next candle displaced through: for Long, a bearish bar whose high the
// following close exceeds.
func latestOrderBlock(bars []model.Candle, dir model.Direction) *model.POI {
	for i := len(bars) - 2; i >= 0; i-- {
		cur, next := bars[i], bars[i+1]
		if dir == model.Long && cur.Bearish() && next.Close > cur.High {
			return &model.POI{Kind: model.OrderBlock, Upper: cur.High, Lower: cur.Low}
		}
		if dir == model.Short && cur.Bullish() && next.Close < cur.Low {
			return &model.POI{Kind: model.OrderBlock, Upper: cur.High, Lower: cur.Low}
		}
	}
	return nil
}

// latestBreakerBlock finds the most recent failed block that price broke
// through and then reclaimed: for Long, a bullish bar with a later close
// below its low followed by a later close back above its high.
func latestBreakerBlock(bars []model.Candle, dir model.Direction) *model.POI {
	for i := len(bars) - 3; i >= 0; i-- {
		cur := bars[i]
		if dir == model.Long && !cur.Bullish() {
			continue
		}
		if dir == model.Short && !cur.Bearish() {
			continue
		}
		broken := -1
		for j := i + 1; j < len(bars); j++ {
			if dir == model.Long && bars[j].Close < cur.Low {
				broken = j
				break
			}
			if dir == model.Short && bars[j].Close > cur.High {
				broken = j
				break
			}
		}
		if broken < 0 {
			continue
		}
		for k := broken + 1; k < len(bars); k++ {
			if dir == model.Long && bars[k].Close > cur.High {
				return &model.POI{Kind: model.BreakerBlock, Upper: cur.High, Lower: cur.Low}
			}
			if dir == model.Short && bars[k].Close < cur.Low {
				return &model.POI{Kind: model.BreakerBlock, Upper: cur.High, Lower: cur.Low}
			}
		}
	}
	return nil
}

// latestFairValueGap finds the most recent three-candle imbalance: for
// Long, the current bar's low gapping above the high from two bars back.
func latestFairValueGap(bars []model.Candle, dir model.Direction) *model.POI {
	for i := len(bars) - 1; i >= 2; i-- {
		first, third := bars[i-2], bars[i]
		if dir == model.Long && third.Low > first.High {
			return &model.POI{Kind: model.FairValueGap, Upper: third.Low, Lower: first.High}
		}
		if dir == model.Short && third.High < first.Low {
			return &model.POI{Kind: model.FairValueGap, Upper: first.Low, Lower: third.High}
		}
	}
	return nil
}
