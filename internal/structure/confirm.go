package structure

import "TradeSentinel/internal/model"

// ConfirmEntry validates on a lower timeframe that price actually reacted
// at the POI: the most recent bar's wick must intrude into the band in the
// bias direction AND the close must land back outside it in the direction
// of the trade, evidencing absorption rather than pure breach.
// No intrusion is false, not an error.
func (d *Detector) ConfirmEntry(ltf *model.CandleSeries, poi *model.POI, dir model.Direction) bool {
	if ltf == nil || poi == nil {
		return false
	}
	last, ok := ltf.Last()
	if !ok {
		return false
	}
	switch dir {
	case model.Long:
		// Wick dips into the demand band, close rejects back above it.
		return last.Low <= poi.Upper && last.Close > poi.Upper
	case model.Short:
		// Wick spikes into the supply band, close rejects back below it.
		return last.High >= poi.Lower && last.Close < poi.Lower
	default:
		return false
	}
}
