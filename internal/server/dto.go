package server

import (
	"time"

	"CandlePulse/internal/calculator"
	"CandlePulse/internal/model"
)

// Fixed reference thresholds for the RSI line chart.
const (
	OverboughtThreshold = 70.0
	OversoldThreshold   = 30.0
)

// SnapshotResponse is the JSON shape consumed by the chart widgets.
type SnapshotResponse struct {
	Market     string         `json:"market"`
	Interval   string         `json:"interval"`
	FetchedAt  time.Time      `json:"fetched_at"`
	Candles    []model.Candle `json:"candles"`
	RSI        []*float64     `json:"rsi"`
	SMA        []*float64     `json:"sma"`
	LatestRSI  *float64       `json:"latest_rsi"`
	Thresholds Thresholds     `json:"thresholds"`
	WindowHigh float64        `json:"window_high"`
	WindowLow  float64        `json:"window_low"`
	Tail       []TailRow      `json:"tail"`
	Status     string         `json:"status"`
}

// Thresholds carries the horizontal reference lines for the RSI chart.
type Thresholds struct {
	Overbought float64 `json:"overbought"`
	Oversold   float64 `json:"oversold"`
}

// TailRow is one row of the combined table tail view.
type TailRow struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	RSI    *float64  `json:"rsi"`
}

// CommandEvent is the payload pushed to WS clients when the relay forwards
// a chat utterance.
type CommandEvent struct {
	UserMsg    string    `json:"user_msg"`
	ReceivedAt time.Time `json:"received_at"`
}

// buildSnapshotResponse converts a pipeline snapshot into the wire shape,
// translating NaN (absent) indicator entries into JSON nulls.
func buildSnapshotResponse(snap *model.Snapshot, tailRows int) *SnapshotResponse {
	resp := &SnapshotResponse{
		Market:    snap.Market,
		Interval:  snap.Interval.String(),
		FetchedAt: snap.FetchedAt,
		Candles:   snap.Series,
		RSI:       nullable(snap.RSI),
		SMA:       nullable(snap.SMA),
		Thresholds: Thresholds{
			Overbought: OverboughtThreshold,
			Oversold:   OversoldThreshold,
		},
		Status: FormatStatus(snap),
	}

	if v, ok := snap.RSI.Latest(); ok {
		resp.LatestRSI = &v
	}
	if high, low, err := calculator.WindowRange(snap.Series); err == nil {
		resp.WindowHigh = high
		resp.WindowLow = low
	}

	tail := snap.Series.Tail(tailRows)
	offset := len(snap.Series) - len(tail)
	resp.Tail = make([]TailRow, len(tail))
	for i, c := range tail {
		row := TailRow{
			Time: c.Time, Open: c.Open, High: c.High,
			Low: c.Low, Close: c.Close, Volume: c.Volume,
		}
		if snap.RSI.Defined(offset + i) {
			v := snap.RSI[offset+i]
			row.RSI = &v
		}
		resp.Tail[i] = row
	}
	return resp
}

func nullable(is model.IndicatorSeries) []*float64 {
	out := make([]*float64, len(is))
	for i := range is {
		if is.Defined(i) {
			v := is[i]
			out[i] = &v
		}
	}
	return out
}
