package model

import (
	"fmt"
	"time"
)

// Timeframe identifies the bar interval of a candle series.
type Timeframe string

const (
	Timeframe15m Timeframe = "15min"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1day"
)

// Candle represents a single OHLCV bar. Immutable once produced.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks the OHLC ordering invariant:
// high >= max(open, close) >= min(open, close) >= low, volume >= 0.
func (c Candle) Validate() error {
	if c.High < c.Open || c.High < c.Close {
		return fmt.Errorf("candle at %s: high %.5f below open/close", c.Time.Format(time.RFC3339), c.High)
	}
	if c.Low > c.Open || c.Low > c.Close {
		return fmt.Errorf("candle at %s: low %.5f above open/close", c.Time.Format(time.RFC3339), c.Low)
	}
	if c.Volume < 0 {
		return fmt.Errorf("candle at %s: negative volume %.2f", c.Time.Format(time.RFC3339), c.Volume)
	}
	return nil
}

// Bullish reports whether the candle closed above its open.
func (c Candle) Bullish() bool { return c.Close > c.Open }

// Bearish reports whether the candle closed below its open.
func (c Candle) Bearish() bool { return c.Close < c.Open }

// CandleSeries holds an ordered, timestamp-ascending sequence of bars
// for one symbol and one timeframe. The series is owned by the caller;
// detectors never mutate it.
type CandleSeries struct {
	Symbol    string
	Timeframe Timeframe
	Bars      []Candle
}

// NewCandleSeries validates bars (ascending timestamps, no duplicates,
// per-candle invariant) and wraps them into a series.
func NewCandleSeries(symbol string, tf Timeframe, bars []Candle) (*CandleSeries, error) {
	for i, b := range bars {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		if i > 0 && !bars[i-1].Time.Before(b.Time) {
			return nil, fmt.Errorf("bar %d: timestamp %s not after previous %s",
				i, b.Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339))
		}
	}
	return &CandleSeries{Symbol: symbol, Timeframe: tf, Bars: bars}, nil
}

// Len returns the number of bars in the series.
func (s *CandleSeries) Len() int { return len(s.Bars) }

// Last returns the most recent bar. The second return is false for an empty series.
func (s *CandleSeries) Last() (Candle, bool) {
	if len(s.Bars) == 0 {
		return Candle{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
