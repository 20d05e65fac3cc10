package collector

import "TradeSentinel/internal/model"

// Fetcher defines the interface for fetching market data. Retry and
// backoff policy belongs to implementations, never to the evaluation core.
type Fetcher interface {
	FetchBars(symbol string, tf model.Timeframe, count int) ([]model.Candle, error)
	FetchCurrentPrice(symbol string) (float64, error)
	Name() string
}
