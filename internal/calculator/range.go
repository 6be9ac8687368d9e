package calculator

import (
	"errors"
	"math"

	"CandlePulse/internal/model"
)

// WindowRange scans the fetched series and returns its high and low,
// shown on the dashboard next to the chart.
func WindowRange(series model.Series) (high, low float64, err error) {
	if len(series) == 0 {
		return 0, 0, errors.New("empty series")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range series {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low, nil
}
