package structure

import "TradeSentinel/internal/model"

// Shift detects a break of structure confirming the given bias: for a
// bullish bias the latest close must exceed the highest high of the
// trailing window (excluding the current bar), mirrored for bearish.
// A neutral bias never confirms.
func (d *Detector) Shift(s *model.CandleSeries, bias model.Bias) model.StructureShift {
	dir, ok := bias.Direction()
	if !ok {
		return model.StructureShift{}
	}
	w := d.cfg.ShiftWindow
	if s == nil || s.Len() < w+1 {
		return model.StructureShift{}
	}

	bars := s.Bars
	last := bars[len(bars)-1]
	window := bars[len(bars)-1-w : len(bars)-1]

	switch dir {
	case model.Long:
		highest := window[0].High
		for _, b := range window[1:] {
			if b.High > highest {
				highest = b.High
			}
		}
		if last.Close > highest {
			return model.StructureShift{Confirmed: true, Direction: model.Long}
		}
	case model.Short:
		lowest := window[0].Low
		for _, b := range window[1:] {
			if b.Low < lowest {
				lowest = b.Low
			}
		}
		if last.Close < lowest {
			return model.StructureShift{Confirmed: true, Direction: model.Short}
		}
	}
	return model.StructureShift{}
}
