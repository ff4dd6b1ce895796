package display

import (
	"fmt"
	"math"
	"time"

	"timetrack/internal/clock"
)

// ElapsedSeconds returns whole seconds between start and the clock's now,
// floored and clamped at 0. Absent, unparseable or future start timestamps
// yield 0: a malformed timestamp degrades to a stalled display, it never
// surfaces as an error.
func ElapsedSeconds(clk clock.Clock, start any) int64 {
	t, ok := NormalizeInstant(start)
	if !ok {
		return 0
	}
	d := clk.Now().Sub(t)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// FormatAdaptive renders a second count with magnitude-dependent granularity:
//
//	< 1m   "45s"
//	< 1h   "2m 05s"
//	else   "1h 02m 05s"
//
// Hours are never shown when zero, minutes never when zero and under a
// minute. Negative or non-finite input renders as "0s".
func FormatAdaptive(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	switch {
	case total < 60:
		return fmt.Sprintf("%ds", total)
	case total < 3600:
		return fmt.Sprintf("%dm %02ds", total/60, total%60)
	default:
		return fmt.Sprintf("%dh %02dm %02ds", total/3600, (total%3600)/60, total%60)
	}
}

// FormatFloatHours renders fractional hours as "1h 30m": hours floored,
// minutes rounded to the nearest integer. Non-positive or non-finite input
// renders as "0h 00m". Minute rounding that lands on 60 (e.g. 1.999) is not
// carried into the hour field; see TestFormatFloatHours_RoundingOverflow.
func FormatFloatHours(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return "0h 00m"
	}
	h := int64(math.Floor(hours))
	m := int64(math.Round((hours - float64(h)) * 60))
	return fmt.Sprintf("%dh %02dm", h, m)
}

// FormatClock renders fractional hours in compact colon form, "1:30", with
// the same floor-hours/round-minutes decomposition as FormatFloatHours.
// Zero, negative or non-finite totals collapse to "0:00".
func FormatClock(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return "0:00"
	}
	h := int64(math.Floor(hours))
	m := int64(math.Round((hours - float64(h)) * 60))
	return fmt.Sprintf("%d:%02d", h, m)
}
