package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"TradeSentinel/internal/httpclient"
	"TradeSentinel/internal/model"
)

// TwelveDataFetcher implements Fetcher using the Twelve Data time-series API.
type TwelveDataFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewTwelveDataFetcher creates a new fetcher with optional proxy support.
func NewTwelveDataFetcher(apiKey, proxyURL string) *TwelveDataFetcher {
	return &TwelveDataFetcher{
		BaseURL: "https://api.twelvedata.com",
		APIKey:  apiKey,
		Client:  httpclient.New(proxyURL, 30*time.Second),
	}
}

func (f *TwelveDataFetcher) Name() string { return "twelvedata" }

// tdBar is the per-value JSON shape of the time_series endpoint.
// All numeric fields arrive as strings.
type tdBar struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

type tdSeries struct {
	Values  []tdBar `json:"values"`
	Status  string  `json:"status"`
	Message string  `json:"message"`
}

func (f *TwelveDataFetcher) FetchBars(symbol string, tf model.Timeframe, count int) ([]model.Candle, error) {
	endpoint := fmt.Sprintf("%s/time_series?symbol=%s&interval=%s&outputsize=%d&format=JSON&apikey=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(string(tf)), count, url.QueryEscape(f.APIKey))

	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("twelvedata fetch: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("twelvedata read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twelvedata: status %d, body: %s", resp.StatusCode, string(body))
	}

	var series tdSeries
	if err := json.Unmarshal(body, &series); err != nil {
		return nil, fmt.Errorf("twelvedata decode: %w", err)
	}
	if series.Status == "error" {
		return nil, fmt.Errorf("twelvedata api error: %s", series.Message)
	}
	if len(series.Values) == 0 {
		return nil, fmt.Errorf("twelvedata: no data returned for %s %s", symbol, tf)
	}

	bars := make([]model.Candle, 0, len(series.Values))
	for _, v := range series.Values {
		bar, err := parseTDBar(v)
		if err != nil {
			return nil, fmt.Errorf("twelvedata parse bar: %w", err)
		}
		bars = append(bars, bar)
	}

	// API returns values newest-first; detectors expect chronological order.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) > count {
		bars = bars[len(bars)-count:]
	}
	return bars, nil
}

func parseTDBar(v tdBar) (model.Candle, error) {
	t, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
	if err != nil {
		// Daily series come back without a time component.
		t, err = time.Parse("2006-01-02", v.Datetime)
		if err != nil {
			return model.Candle{}, fmt.Errorf("datetime %q: %w", v.Datetime, err)
		}
	}
	o, err := strconv.ParseFloat(v.Open, 64)
	if err != nil {
		return model.Candle{}, fmt.Errorf("open %q: %w", v.Open, err)
	}
	h, err := strconv.ParseFloat(v.High, 64)
	if err != nil {
		return model.Candle{}, fmt.Errorf("high %q: %w", v.High, err)
	}
	l, err := strconv.ParseFloat(v.Low, 64)
	if err != nil {
		return model.Candle{}, fmt.Errorf("low %q: %w", v.Low, err)
	}
	c, err := strconv.ParseFloat(v.Close, 64)
	if err != nil {
		return model.Candle{}, fmt.Errorf("close %q: %w", v.Close, err)
	}
	vol := 0.0
	if v.Volume != "" {
		if vol, err = strconv.ParseFloat(v.Volume, 64); err != nil {
			return model.Candle{}, fmt.Errorf("volume %q: %w", v.Volume, err)
		}
	}
	return model.Candle{Time: t, Open: o, High: h, Low: l, Close: c, Volume: vol}, nil
}

func (f *TwelveDataFetcher) FetchCurrentPrice(symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/price?symbol=%s&apikey=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(f.APIKey))

	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return 0, fmt.Errorf("fetch current price: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch current price: status %d", resp.StatusCode)
	}
	var result struct {
		Price string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode price: %w", err)
	}
	price, err := strconv.ParseFloat(result.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", result.Price, err)
	}
	return price, nil
}
