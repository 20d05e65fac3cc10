package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"TradeSentinel/internal/httpclient"
	"TradeSentinel/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
// Used as the keyless fallback when no Twelve Data API key is configured.
type YahooFetcher struct {
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		Client: httpclient.New(proxyURL, 30*time.Second),
		SymbolMap: map[string]string{
			"XAU/USD": "GC=F",
			"XAUUSD":  "GC=F",
			"GOLD":    "GC=F",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) fetchChart(symbol, interval, rng string) ([]model.Candle, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=%s&range=%s",
		url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Candle, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.Candle{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *YahooFetcher) FetchBars(symbol string, tf model.Timeframe, count int) ([]model.Candle, error) {
	var bars []model.Candle
	var err error
	switch tf {
	case model.Timeframe15m:
		bars, err = f.fetchChart(symbol, "15m", "5d")
	case model.Timeframe1h:
		bars, err = f.fetchChart(symbol, "1h", "1mo")
	case model.Timeframe4h:
		// Yahoo has no 4h interval; aggregate from hourly bars.
		hourly, hErr := f.fetchChart(symbol, "1h", "3mo")
		if hErr != nil {
			return nil, hErr
		}
		bars = aggregateBars(hourly, 4)
	case model.Timeframe1d:
		rng := "2y"
		if count <= 30 {
			rng = "1mo"
		} else if count <= 90 {
			rng = "3mo"
		} else if count <= 365 {
			rng = "1y"
		}
		bars, err = f.fetchChart(symbol, "1d", rng)
	default:
		return nil, fmt.Errorf("yahoo: unsupported timeframe %q", tf)
	}
	if err != nil {
		return nil, err
	}
	if len(bars) > count {
		bars = bars[len(bars)-count:]
	}
	return bars, nil
}

// aggregateBars merges consecutive groups of n bars into one.
func aggregateBars(bars []model.Candle, n int) []model.Candle {
	if n <= 1 || len(bars) == 0 {
		return bars
	}
	var out []model.Candle
	for i := 0; i < len(bars); i += n {
		end := i + n
		if end > len(bars) {
			end = len(bars)
		}
		group := bars[i:end]
		merged := model.Candle{
			Time:  group[0].Time,
			Open:  group[0].Open,
			High:  group[0].High,
			Low:   group[0].Low,
			Close: group[len(group)-1].Close,
		}
		for _, b := range group {
			if b.High > merged.High {
				merged.High = b.High
			}
			if b.Low < merged.Low {
				merged.Low = b.Low
			}
			merged.Volume += b.Volume
		}
		out = append(out, merged)
	}
	return out
}

func (f *YahooFetcher) FetchCurrentPrice(symbol string) (float64, error) {
	bars, err := f.fetchChart(symbol, "1d", "1d")
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("yahoo: no price data")
	}
	return bars[len(bars)-1].Close, nil
}
