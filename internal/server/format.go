package server

import (
	"fmt"
	"strings"

	"CandlePulse/internal/model"
)

// FormatStatus renders a one-line human-readable summary of a snapshot,
// used in WS pushes, logs, and the dashboard header.
func FormatStatus(snap *model.Snapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s", snap.Market, snap.Interval))
	if len(snap.Series) > 0 {
		b.WriteString(fmt.Sprintf(" | close %.2f", snap.Series[len(snap.Series)-1].Close))
	}

	if rsi, ok := snap.RSI.Latest(); ok {
		b.WriteString(fmt.Sprintf(" | RSI %.1f (%s)", rsi, rsiTag(rsi)))
	} else {
		b.WriteString(" | RSI n/a (insufficient data)")
	}
	return b.String()
}

func rsiTag(rsi float64) string {
	switch {
	case rsi >= OverboughtThreshold:
		return "overbought"
	case rsi <= OversoldThreshold:
		return "oversold"
	default:
		return "neutral"
	}
}
