package dashboard

import (
	"errors"
	"time"
)

// ErrUnknownTimeframe is returned for an unrecognized timeframe label
var ErrUnknownTimeframe = errors.New("unknown timeframe")

// Interval is a time window, inclusive on both ends. A zero Start or End
// means unbounded on that side; the zero Interval covers all time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	if !iv.Start.IsZero() && t.Before(iv.Start) {
		return false
	}
	if !iv.End.IsZero() && t.After(iv.End) {
		return false
	}
	return true
}

// Timeframe is a named reporting window.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
	TimeframeAll   Timeframe = "all"
)

// Resolve converts a timeframe to a concrete interval relative to now.
// "week" starts at the most recent weekStart midnight; the week-start
// convention is a configuration choice, not a hardcoded day.
func Resolve(tf Timeframe, now time.Time, weekStart time.Weekday) (Interval, error) {
	switch tf {
	case TimeframeAll, "":
		return Interval{}, nil
	case TimeframeWeek:
		daysBack := (int(now.Weekday()) - int(weekStart) + 7) % 7
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -daysBack)
		return Interval{Start: start}, nil
	case TimeframeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Interval{Start: start}, nil
	case TimeframeYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return Interval{Start: start}, nil
	}
	return Interval{}, ErrUnknownTimeframe
}
