package collector

import (
	"context"
	"fmt"
	"time"

	"CandlePulse/internal/calculator"
	"CandlePulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Data model.Series
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, _ model.Interval, count int) (model.Series, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Data != nil {
		return m.Data, nil
	}
	return GenerateMockSeries(50000000, count), nil
}

// GenerateMockSeries produces a gently trending series around basePrice.
func GenerateMockSeries(basePrice float64, count int) model.Series {
	series := make(model.Series, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		series[i] = model.Candle{
			Time:   time.Now().Add(-time.Duration(count-i) * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 12.5,
		}
	}
	return series
}

// Collector orchestrates one refresh: fetch, normalize, compute indicators.
// Each call is an isolated unit of work with no shared state, so concurrent
// refreshes never interfere with each other.
type Collector struct {
	Fetcher   Fetcher
	RSIPeriod int
	SMAPeriod int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, rsiPeriod, smaPeriod int) *Collector {
	return &Collector{Fetcher: fetcher, RSIPeriod: rsiPeriod, SMAPeriod: smaPeriod}
}

// Collect runs the full pipeline for one request. Hard errors abort the
// whole refresh; a series too short to seed the RSI is not an error, the
// indicator comes back entirely absent and callers degrade gracefully.
func (c *Collector) Collect(ctx context.Context, market string, iv model.Interval, count int) (*model.Snapshot, error) {
	series, err := c.Fetcher.FetchCandles(ctx, market, iv, count)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}

	return &model.Snapshot{
		Market:    market,
		Interval:  iv,
		Series:    series,
		RSI:       calculator.RSISeries(series, c.RSIPeriod),
		SMA:       calculator.SMASeries(series.Closes(), c.SMAPeriod),
		FetchedAt: time.Now(),
	}, nil
}
