package model

import (
	"testing"
	"time"
)

func TestCandleValidate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		candle  Candle
		wantErr bool
	}{
		{"valid", Candle{Time: now, Open: 100, High: 105, Low: 98, Close: 103, Volume: 10}, false},
		{"high below close", Candle{Time: now, Open: 100, High: 101, Low: 98, Close: 103}, true},
		{"high below open", Candle{Time: now, Open: 104, High: 101, Low: 98, Close: 100}, true},
		{"low above open", Candle{Time: now, Open: 100, High: 105, Low: 101, Close: 104}, true},
		{"low above close", Candle{Time: now, Open: 103, High: 105, Low: 101, Close: 100}, true},
		{"negative volume", Candle{Time: now, Open: 100, High: 105, Low: 98, Close: 103, Volume: -1}, true},
		{"doji", Candle{Time: now, Open: 100, High: 100, Low: 100, Close: 100}, false},
	}
	for _, tt := range tests {
		err := tt.candle.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestNewCandleSeries_RejectsOutOfOrder(t *testing.T) {
	t0 := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	bars := []Candle{
		{Time: t0, Open: 100, High: 101, Low: 99, Close: 100.5},
		{Time: t0.Add(time.Hour), Open: 100.5, High: 102, Low: 100, Close: 101},
		{Time: t0.Add(time.Hour), Open: 101, High: 103, Low: 100.5, Close: 102},
	}
	if _, err := NewCandleSeries("XAU/USD", Timeframe1h, bars); err == nil {
		t.Error("expected error for duplicate timestamp")
	}

	bars[2].Time = t0.Add(30 * time.Minute)
	if _, err := NewCandleSeries("XAU/USD", Timeframe1h, bars); err == nil {
		t.Error("expected error for backward timestamp")
	}

	bars[2].Time = t0.Add(2 * time.Hour)
	s, err := NewCandleSeries("XAU/USD", Timeframe1h, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 bars, got %d", s.Len())
	}
}

func TestCandleSeriesLast(t *testing.T) {
	empty := &CandleSeries{Symbol: "XAU/USD", Timeframe: Timeframe15m}
	if _, ok := empty.Last(); ok {
		t.Error("expected no last bar on empty series")
	}

	t0 := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	s, err := NewCandleSeries("XAU/USD", Timeframe15m, []Candle{
		{Time: t0, Open: 100, High: 101, Low: 99, Close: 100.5},
		{Time: t0.Add(15 * time.Minute), Open: 100.5, High: 102, Low: 100, Close: 101.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last, ok := s.Last()
	if !ok || last.Close != 101.5 {
		t.Errorf("expected last close 101.5, got %.2f (ok=%v)", last.Close, ok)
	}
}
