package structure

import (
	"testing"
	"time"

	"TradeSentinel/internal/model"
)

// series builds a 4h series from (open, high, low, close) rows with
// synthetic ascending timestamps. Fixture bugs fail fast here instead of
// silently skewing a detector result.
func series(t *testing.T, rows [][4]float64) *model.CandleSeries {
	t.Helper()
	t0 := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Candle, len(rows))
	for i, r := range rows {
		bars[i] = model.Candle{
			Time: t0.Add(time.Duration(i) * 4 * time.Hour),
			Open: r[0], High: r[1], Low: r[2], Close: r[3],
			Volume: 1000,
		}
	}
	s, err := model.NewCandleSeries("XAU/USD", model.Timeframe4h, bars)
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return s
}

// mirror flips a fixture around price 200 so every bullish case doubles
// as its bearish counterpart.
func mirror(t *testing.T, s *model.CandleSeries) *model.CandleSeries {
	t.Helper()
	bars := make([]model.Candle, len(s.Bars))
	for i, b := range s.Bars {
		bars[i] = model.Candle{
			Time: b.Time,
			Open: 200 - b.Open, High: 200 - b.Low,
			Low: 200 - b.High, Close: 200 - b.Close,
			Volume: b.Volume,
		}
	}
	m, err := model.NewCandleSeries(s.Symbol, s.Timeframe, bars)
	if err != nil {
		t.Fatalf("bad mirrored fixture: %v", err)
	}
	return m
}

// uptrend is a clean higher-highs/higher-lows walk. The last row breaks
// above the trailing structure, so it also confirms a shift.
func uptrend(t *testing.T) *model.CandleSeries {
	return series(t, [][4]float64{
		{96, 100, 95, 98},
		{99, 106, 99, 104},
		{101, 102, 96, 97},
		{100, 104, 100, 103},
		{103, 110, 101, 108},
		{105, 105, 98, 99},
		{103, 108, 103, 107},
		{107, 114, 104, 112},
		{112, 116, 105, 115.5},
	})
}

func TestBias_Bullish(t *testing.T) {
	d := New(DefaultConfig())
	if got := d.Bias(uptrend(t)); got != model.BiasBullish {
		t.Errorf("expected BULLISH, got %s", got)
	}
}

func TestBias_Bearish(t *testing.T) {
	d := New(DefaultConfig())
	if got := d.Bias(mirror(t, uptrend(t))); got != model.BiasBearish {
		t.Errorf("expected BEARISH, got %s", got)
	}
}

func TestBias_ChoppyIsNeutral(t *testing.T) {
	s := series(t, [][4]float64{
		{100, 102, 98, 101},
		{101, 105, 99, 104},
		{104, 104, 95, 96},
		{96, 105, 96, 104},
		{104, 104, 94, 95},
	})
	d := New(DefaultConfig())
	if got := d.Bias(s); got != model.BiasNeutral {
		t.Errorf("expected NEUTRAL for equal swing highs, got %s", got)
	}
}

func TestBias_TooFewBarsIsNeutral(t *testing.T) {
	full := uptrend(t)
	short, err := model.NewCandleSeries(full.Symbol, full.Timeframe, full.Bars[:4])
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	d := New(DefaultConfig())
	if got := d.Bias(short); got != model.BiasNeutral {
		t.Errorf("expected NEUTRAL below minimum bars, got %s", got)
	}
	if got := d.Bias(nil); got != model.BiasNeutral {
		t.Errorf("expected NEUTRAL for nil series, got %s", got)
	}
}

func TestShift_ConfirmedLong(t *testing.T) {
	d := New(DefaultConfig())
	s := uptrend(t)
	shift := d.Shift(s, model.BiasBullish)
	if !shift.Confirmed || shift.Direction != model.Long {
		t.Errorf("expected confirmed long shift, got %+v", shift)
	}
}

func TestShift_ConfirmedShort(t *testing.T) {
	d := New(DefaultConfig())
	s := mirror(t, uptrend(t))
	shift := d.Shift(s, model.BiasBearish)
	if !shift.Confirmed || shift.Direction != model.Short {
		t.Errorf("expected confirmed short shift, got %+v", shift)
	}
}

func TestShift_NotConfirmedInsideRange(t *testing.T) {
	// Same walk but the final close stays under the trailing highs.
	s := series(t, [][4]float64{
		{96, 100, 95, 98},
		{99, 106, 99, 104},
		{101, 102, 96, 97},
		{100, 104, 100, 103},
		{103, 110, 101, 108},
		{105, 105, 98, 99},
		{103, 108, 103, 107},
		{107, 114, 104, 112},
		{112, 112, 105, 107},
	})
	d := New(DefaultConfig())
	if shift := d.Shift(s, model.BiasBullish); shift.Confirmed {
		t.Errorf("expected unconfirmed shift, got %+v", shift)
	}
}

func TestShift_NeutralBiasNeverConfirms(t *testing.T) {
	d := New(DefaultConfig())
	if shift := d.Shift(uptrend(t), model.BiasNeutral); shift.Confirmed {
		t.Errorf("neutral bias confirmed a shift: %+v", shift)
	}
}
