package model

import "math"

// IndicatorSeries holds one indicator value per candle, aligned by position
// with the Series it was computed from. Positions without enough history to
// produce a value are NaN and must be treated as absent, never as zero.
type IndicatorSeries []float64

// Defined reports whether position i carries a computed value.
func (is IndicatorSeries) Defined(i int) bool {
	return i >= 0 && i < len(is) && !math.IsNaN(is[i])
}

// Latest returns the most recent defined value. ok is false when the whole
// series is absent (insufficient history).
func (is IndicatorSeries) Latest() (float64, bool) {
	for i := len(is) - 1; i >= 0; i-- {
		if !math.IsNaN(is[i]) {
			return is[i], true
		}
	}
	return 0, false
}
