package collector

import (
	"encoding/json"
	"fmt"
	"time"

	"CandlePulse/internal/model"
)

// kst is the exchange-local zone for candle timestamps.
var kst = time.FixedZone("KST", 9*60*60)

const kstLayout = "2006-01-02T15:04:05"

// upbitCandle is the upstream-native candle shape. Pointer fields so that
// missing keys are distinguishable from zero values.
type upbitCandle struct {
	DateTimeKST *string  `json:"candle_date_time_kst"`
	Open        *float64 `json:"opening_price"`
	High        *float64 `json:"high_price"`
	Low         *float64 `json:"low_price"`
	Close       *float64 `json:"trade_price"`
	Volume      *float64 `json:"candle_acc_trade_volume"`
}

// Normalize maps raw upstream candle objects into the canonical schema and
// reverses the newest-first upstream order into ascending time order.
// Indicator math assumes ascending order; this reversal is load-bearing,
// not cosmetic.
func Normalize(raw []json.RawMessage) (model.Series, error) {
	series := make(model.Series, len(raw))
	n := len(raw)
	for i, r := range raw {
		var uc upbitCandle
		if err := json.Unmarshal(r, &uc); err != nil {
			return nil, &model.MalformedDataError{Field: "(element)", Reason: err.Error()}
		}
		c, err := uc.toCandle()
		if err != nil {
			return nil, err
		}
		// upstream row 0 is the newest candle
		series[n-1-i] = c
	}
	return series, nil
}

func (uc *upbitCandle) toCandle() (model.Candle, error) {
	switch {
	case uc.DateTimeKST == nil:
		return model.Candle{}, &model.MalformedDataError{Field: "candle_date_time_kst", Reason: "missing"}
	case uc.Open == nil:
		return model.Candle{}, &model.MalformedDataError{Field: "opening_price", Reason: "missing"}
	case uc.High == nil:
		return model.Candle{}, &model.MalformedDataError{Field: "high_price", Reason: "missing"}
	case uc.Low == nil:
		return model.Candle{}, &model.MalformedDataError{Field: "low_price", Reason: "missing"}
	case uc.Close == nil:
		return model.Candle{}, &model.MalformedDataError{Field: "trade_price", Reason: "missing"}
	case uc.Volume == nil:
		return model.Candle{}, &model.MalformedDataError{Field: "candle_acc_trade_volume", Reason: "missing"}
	}

	ts, err := time.ParseInLocation(kstLayout, *uc.DateTimeKST, kst)
	if err != nil {
		return model.Candle{}, &model.MalformedDataError{
			Field:  "candle_date_time_kst",
			Reason: fmt.Sprintf("unparsable timestamp %q", *uc.DateTimeKST),
		}
	}

	return model.Candle{
		Time:   ts,
		Open:   *uc.Open,
		High:   *uc.High,
		Low:    *uc.Low,
		Close:  *uc.Close,
		Volume: *uc.Volume,
	}, nil
}
