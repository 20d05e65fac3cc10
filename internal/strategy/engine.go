package strategy

import (
	"fmt"
	"time"

	"TradeSentinel/internal/model"
	"TradeSentinel/internal/risk"
	"TradeSentinel/internal/structure"
)

// Engine turns multi-timeframe candle series into at most one scored,
// sized trade signal per evaluation. Each evaluation is a pure function
// of its inputs; an Engine is safe to share across symbols.
type Engine struct {
	cfg      Config
	detector *structure.Detector
	sizer    *risk.Sizer
}

// NewEngine creates an Engine. The config must already be validated.
func NewEngine(cfg Config, detector *structure.Detector, sizer *risk.Sizer) *Engine {
	return &Engine{cfg: cfg, detector: detector, sizer: sizer}
}

// Evaluation carries the structural findings of one cycle alongside the
// assembled signal. Signal is nil when the gate fails; Reason says why,
// for informational logging; a failed gate is "no setup this cycle",
// never an error.
type Evaluation struct {
	Bias       model.Bias
	Shift      model.StructureShift
	Zones      []model.LiquidityZone
	POI        *model.POI
	Confirmed  bool
	Confidence int
	Signal     *model.TradeSignal
	Reason     string
}

// Evaluate runs the full detector chain over the higher- and
// lower-timeframe series and applies the confidence gate for the
// account's tier. The series are never mutated.
func (e *Engine) Evaluate(htf, ltf *model.CandleSeries, acct model.Account) (*Evaluation, error) {
	tier, ok := e.cfg.Tiers[acct.Tier]
	if !ok {
		return nil, fmt.Errorf("unknown account tier %q", acct.Tier)
	}

	ev := &Evaluation{}

	ev.Bias = e.detector.Bias(htf)
	dir, ok := ev.Bias.Direction()
	if !ok {
		ev.Reason = "neutral bias"
		return ev, nil
	}

	ev.Shift = e.detector.Shift(htf, ev.Bias)
	ev.Zones = e.detector.LiquidityZones(htf)

	ev.POI = e.detector.POI(htf, ev.Bias)
	if ev.POI == nil {
		ev.Reason = "no point of interest"
		return ev, nil
	}

	ev.Confirmed = e.detector.ConfirmEntry(ltf, ev.POI, dir)
	ev.Confidence = e.score(ev)
	if !ev.Confirmed {
		ev.Reason = "no lower-timeframe confirmation"
		return ev, nil
	}
	if ev.Confidence < tier.MinConfidence {
		ev.Reason = fmt.Sprintf("confidence %d below tier %s threshold %d",
			ev.Confidence, acct.Tier, tier.MinConfidence)
		return ev, nil
	}

	last, ok := ltf.Last()
	if !ok {
		ev.Reason = "empty lower-timeframe series"
		return ev, nil
	}
	entry := last.Close

	var stop float64
	switch dir {
	case model.Long:
		stop = ev.POI.Lower - e.cfg.StopBuffer
	case model.Short:
		stop = ev.POI.Upper + e.cfg.StopBuffer
	}

	size, err := e.sizer.Size(acct.Balance, tier.RiskPercent, abs(entry-stop))
	if err != nil {
		return nil, fmt.Errorf("size position: %w", err)
	}

	signal, err := assemble(ltf.Symbol, dir, entry, stop, e.cfg.Ladder, size, ev.Confidence, acct.Tier, time.Now())
	if err != nil {
		return nil, fmt.Errorf("assemble signal: %w", err)
	}
	ev.Signal = signal
	return ev, nil
}

// score aggregates the fixed-weight contributions into [0,100].
func (e *Engine) score(ev *Evaluation) int {
	w := e.cfg.Weights
	score := 0
	if ev.Bias != model.BiasNeutral {
		score += w.Bias
	}
	if ev.Shift.Confirmed {
		score += w.Shift
	}
	if len(ev.Zones) > 0 {
		score += w.Liquidity
	}
	if ev.POI != nil {
		score += w.POI
	}
	if ev.Confirmed {
		score += w.Confirmation
	}
	if score > 100 {
		score = 100
	}
	return score
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
