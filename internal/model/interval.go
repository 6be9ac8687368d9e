package model

import "fmt"

// Interval selects the candle granularity. Each value maps to a distinct
// path segment on the exchange's candle endpoint.
type Interval string

const (
	IntervalSecond    Interval = "second"
	IntervalMinute1   Interval = "minute1"
	IntervalMinute3   Interval = "minute3"
	IntervalMinute5   Interval = "minute5"
	IntervalMinute15  Interval = "minute15"
	IntervalMinute30  Interval = "minute30"
	IntervalMinute60  Interval = "minute60"
	IntervalMinute240 Interval = "minute240"
	IntervalDay       Interval = "day"
)

var intervalPaths = map[Interval]string{
	IntervalSecond:    "seconds",
	IntervalMinute1:   "minutes/1",
	IntervalMinute3:   "minutes/3",
	IntervalMinute5:   "minutes/5",
	IntervalMinute15:  "minutes/15",
	IntervalMinute30:  "minutes/30",
	IntervalMinute60:  "minutes/60",
	IntervalMinute240: "minutes/240",
	IntervalDay:       "days",
}

// Intervals lists all supported granularities, finest first.
func Intervals() []Interval {
	return []Interval{
		IntervalSecond,
		IntervalMinute1, IntervalMinute3, IntervalMinute5,
		IntervalMinute15, IntervalMinute30, IntervalMinute60,
		IntervalMinute240,
		IntervalDay,
	}
}

// ParseInterval validates a caller-supplied interval name.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(s)
	if _, ok := intervalPaths[iv]; !ok {
		return "", fmt.Errorf("unknown interval %q", s)
	}
	return iv, nil
}

// Path returns the upstream endpoint path segment for this interval.
func (iv Interval) Path() string {
	return intervalPaths[iv]
}

func (iv Interval) String() string { return string(iv) }
