package collector

import (
	"fmt"
	"time"

	"TradeSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	BarsBy map[model.Timeframe][]model.Candle
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ string, tf model.Timeframe, count int) ([]model.Candle, error) {
	if bars, ok := m.BarsBy[tf]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, count), nil
}

func (m *MockFetcher) FetchCurrentPrice(_ string) (float64, error) {
	return m.Price, nil
}

func generateMockBars(basePrice float64, count int) []model.Candle {
	bars := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Candle{
			Time:   time.Now().Add(-time.Duration(count-i) * time.Hour),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000,
		}
	}
	return bars
}

// MarketData is the multi-timeframe snapshot handed to one evaluation.
type MarketData struct {
	HTF          *model.CandleSeries
	LTF          *model.CandleSeries
	CurrentPrice float64
	FetchedAt    time.Time
}

// Collector assembles validated multi-timeframe candle series for a symbol.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	HTF     model.Timeframe
	LTF     model.Timeframe
	HTFBars int
	LTFBars int
}

// NewCollector creates a Collector with the canonical timeframe pair:
// 4h structure, 15min confirmation.
func NewCollector(fetcher Fetcher, symbol string) *Collector {
	return &Collector{
		Fetcher: fetcher,
		Symbol:  symbol,
		HTF:     model.Timeframe4h,
		LTF:     model.Timeframe15m,
		HTFBars: 50,
		LTFBars: 50,
	}
}

// Collect fetches and validates both timeframes and the current price.
// Malformed bars are rejected here, at the boundary where they enter.
func (c *Collector) Collect() (*MarketData, error) {
	htfBars, err := c.Fetcher.FetchBars(c.Symbol, c.HTF, c.HTFBars)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", c.HTF, err)
	}
	htf, err := model.NewCandleSeries(c.Symbol, c.HTF, htfBars)
	if err != nil {
		return nil, fmt.Errorf("validate %s series: %w", c.HTF, err)
	}

	ltfBars, err := c.Fetcher.FetchBars(c.Symbol, c.LTF, c.LTFBars)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", c.LTF, err)
	}
	ltf, err := model.NewCandleSeries(c.Symbol, c.LTF, ltfBars)
	if err != nil {
		return nil, fmt.Errorf("validate %s series: %w", c.LTF, err)
	}

	price, err := c.Fetcher.FetchCurrentPrice(c.Symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch current price: %w", err)
	}

	return &MarketData{
		HTF:          htf,
		LTF:          ltf,
		CurrentPrice: price,
		FetchedAt:    time.Now(),
	}, nil
}
