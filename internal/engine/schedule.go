package engine

import (
	"time"

	"github.com/matthewbaird/compliance/internal/types"
)

// NextDueDate computes the next due date for a frequency from a baseline
// date. Calendar-month arithmetic clamps the day-of-month to the shorter
// target month (Jan 31 + 1 month → last day of February).
//
// Unknown frequency values fall back to annual rather than failing —
// upstream category data is uncontrolled and a wrong-but-sane schedule
// beats a dropped obligation.
func NextDueDate(freq types.Frequency, baseline time.Time) time.Time {
	switch freq {
	case types.FrequencyMonthly:
		return addMonthsClamped(baseline, 1)
	case types.FrequencyQuarterly:
		return addMonthsClamped(baseline, 3)
	case types.FrequencyBiannual:
		return addMonthsClamped(baseline, 6)
	default:
		// annual, and the fallback for anything unrecognized
		return addMonthsClamped(baseline, 12)
	}
}

// addMonthsClamped advances t by the given number of months, clamping the
// day-of-month instead of letting it roll into the next month the way
// time.AddDate does (Jan 31 + 1 month must be Feb 28/29, not Mar 2/3).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	total := int(m) - 1 + months
	y += total / 12
	m = time.Month(total%12 + 1)

	if last := lastDayOfMonth(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// lastDayOfMonth returns the number of days in the given month.
func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
