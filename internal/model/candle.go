package model

import "time"

// Candle represents a single OHLCV bar in the canonical schema.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is a candle sequence ordered ascending by time (oldest first).
type Series []Candle

// Closes returns the close prices of the series, in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, c := range s {
		closes[i] = c.Close
	}
	return closes
}

// Tail returns the last n candles (the whole series if it is shorter).
func (s Series) Tail(n int) Series {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Snapshot is the result of one refresh: the normalized series plus
// its indicators, computed together and never partially populated.
type Snapshot struct {
	Market    string          `json:"market"`
	Interval  Interval        `json:"interval"`
	Series    Series          `json:"series"`
	RSI       IndicatorSeries `json:"rsi"`
	SMA       IndicatorSeries `json:"sma"`
	FetchedAt time.Time       `json:"fetched_at"`
}
