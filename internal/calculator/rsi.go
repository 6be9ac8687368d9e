package calculator

import (
	"math"

	"CandlePulse/internal/model"
)

// RSISeries computes Wilder's RSI over the series, one value per candle.
//
// Smoothing convention (fixed, and the oracle for the regression tests):
// the first value at position `period` is seeded with a simple average of
// the first `period` gains/losses; every later position uses Wilder's
// exponential smoothing avg = (avg*(period-1) + x) / period.
//
// Positions i < period are NaN (insufficient history). A series shorter
// than period+1 candles yields an all-NaN result, which is valid, not an
// error. Zero-loss windows are RSI 100; fully flat windows are RSI 50.
func RSISeries(series model.Series, period int) model.IndicatorSeries {
	out := make(model.IndicatorSeries, len(series))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(series) < period+1 {
		return out
	}

	closes := series.Closes()

	// Seed: simple average of the first `period` changes.
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	// Wilder smoothing for the rest.
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0 // no movement at all
		}
		return 100.0 // no losses means maximal strength
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
