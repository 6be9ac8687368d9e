package calculator

import (
	"math"

	"CandlePulse/internal/model"
)

// SMASeries computes a rolling simple moving average over the prices,
// aligned by position. Positions i < period-1 are NaN.
func SMASeries(prices []float64, period int) model.IndicatorSeries {
	out := make(model.IndicatorSeries, len(prices))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(prices) < period {
		return out
	}
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}
