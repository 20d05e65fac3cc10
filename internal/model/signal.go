package model

import (
	"fmt"
	"time"
)

// Direction is the trade direction. Exactly two values; every component
// uses this enumeration rather than ad hoc buy/sell strings.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Bias is the higher-timeframe directional lean derived from swing structure.
type Bias string

const (
	BiasBullish Bias = "BULLISH"
	BiasBearish Bias = "BEARISH"
	BiasNeutral Bias = "NEUTRAL"
)

// Direction maps a non-neutral bias to a trade direction.
func (b Bias) Direction() (Direction, bool) {
	switch b {
	case BiasBullish:
		return Long, true
	case BiasBearish:
		return Short, true
	default:
		return "", false
	}
}

// StructureShift marks a break of structure confirming that a bias is active.
// Only meaningful paired with a non-neutral bias.
type StructureShift struct {
	Confirmed bool
	Direction Direction
}

// LiquidityKind enumerates resting-liquidity zone types.
type LiquidityKind string

const (
	EqualHighs LiquidityKind = "EQUAL_HIGHS"
	EqualLows  LiquidityKind = "EQUAL_LOWS"
	SweepHigh  LiquidityKind = "SWEEP_HIGH"
	SweepLow   LiquidityKind = "SWEEP_LOW"
)

// LiquidityZone is a price level where resting orders are inferred to cluster.
// Advisory context for scoring, never a hard gate.
type LiquidityZone struct {
	Kind  LiquidityKind
	Level float64
}

// POIKind enumerates point-of-interest band types, in selection priority order.
type POIKind string

const (
	OrderBlock   POIKind = "ORDER_BLOCK"
	BreakerBlock POIKind = "BREAKER_BLOCK"
	FairValueGap POIKind = "FAIR_VALUE_GAP"
)

// POI is a price band expected to produce a reaction. Upper >= Lower.
type POI struct {
	Kind  POIKind
	Upper float64
	Lower float64
}

// Validate checks the band ordering.
func (p POI) Validate() error {
	if p.Upper < p.Lower {
		return fmt.Errorf("POI %s: upper %.5f below lower %.5f", p.Kind, p.Upper, p.Lower)
	}
	return nil
}

// TradeSignal is the final output of a qualifying evaluation.
// Immutable after assembly.
type TradeSignal struct {
	Symbol     string    `json:"symbol"`
	Direction  Direction `json:"direction"`
	Entry      float64   `json:"entry"`
	Stop       float64   `json:"stop"`
	Targets    []float64 `json:"targets"` // ascending risk-multiple ladder, e.g. 3R/6R/10R
	Size       float64   `json:"size"`
	Confidence int       `json:"confidence"` // 0..100
	Tier       string    `json:"tier"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks the stop/entry/target ordering invariant:
// for Long, stop < entry < targets strictly increasing; mirrored for Short.
func (t *TradeSignal) Validate() error {
	if len(t.Targets) == 0 {
		return fmt.Errorf("signal %s: no targets", t.Symbol)
	}
	switch t.Direction {
	case Long:
		if t.Stop >= t.Entry {
			return fmt.Errorf("long signal %s: stop %.5f not below entry %.5f", t.Symbol, t.Stop, t.Entry)
		}
		prev := t.Entry
		for i, tp := range t.Targets {
			if tp <= prev {
				return fmt.Errorf("long signal %s: target %d (%.5f) not above %.5f", t.Symbol, i+1, tp, prev)
			}
			prev = tp
		}
	case Short:
		if t.Stop <= t.Entry {
			return fmt.Errorf("short signal %s: stop %.5f not above entry %.5f", t.Symbol, t.Stop, t.Entry)
		}
		prev := t.Entry
		for i, tp := range t.Targets {
			if tp >= prev {
				return fmt.Errorf("short signal %s: target %d (%.5f) not below %.5f", t.Symbol, i+1, tp, prev)
			}
			prev = tp
		}
	default:
		return fmt.Errorf("signal %s: unknown direction %q", t.Symbol, t.Direction)
	}
	return nil
}

// Account is the caller-supplied account context for one evaluation.
type Account struct {
	Balance float64
	Tier    string
}
