package strategy

import (
	"fmt"
	"time"

	"TradeSentinel/internal/model"
)

// assemble combines entry, stop, the risk-multiple target ladder, size and
// confidence into an immutable TradeSignal. Assembly is rejected when the
// stop/entry/target ordering invariant would be violated.
func assemble(symbol string, dir model.Direction, entry, stop float64, ladder []float64,
	size float64, confidence int, tier string, now time.Time) (*model.TradeSignal, error) {

	riskDist := entry - stop
	if dir == model.Short {
		riskDist = stop - entry
	}
	if riskDist <= 0 {
		return nil, fmt.Errorf("%s %s: stop %.5f on the wrong side of entry %.5f", dir, symbol, stop, entry)
	}

	targets := make([]float64, len(ladder))
	for i, r := range ladder {
		if dir == model.Long {
			targets[i] = entry + riskDist*r
		} else {
			targets[i] = entry - riskDist*r
		}
	}

	signal := &model.TradeSignal{
		Symbol:     symbol,
		Direction:  dir,
		Entry:      entry,
		Stop:       stop,
		Targets:    targets,
		Size:       size,
		Confidence: confidence,
		Tier:       tier,
		CreatedAt:  now,
	}
	if err := signal.Validate(); err != nil {
		return nil, err
	}
	return signal, nil
}
