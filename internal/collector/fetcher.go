package collector

import (
	"context"

	"CandlePulse/internal/model"
)

// Fetcher defines the interface for fetching candle data.
type Fetcher interface {
	// FetchCandles returns the `count` most recent candles for the market,
	// normalized into ascending chronological order.
	FetchCandles(ctx context.Context, market string, iv model.Interval, count int) (model.Series, error)
	Name() string
}
