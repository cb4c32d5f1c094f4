package entities

import (
	"strings"
	"time"
)

// RangeKey identifies one of the predefined date-range buckets, or custom.
type RangeKey string

const (
	RangeToday      RangeKey = "today"
	RangeYesterday  RangeKey = "yesterday"
	RangeLast7Days  RangeKey = "last7days"
	RangeLast30Days RangeKey = "last30days"
	RangeThisMonth  RangeKey = "thisMonth"
	RangeLastMonth  RangeKey = "lastMonth"
	RangeLast3Mo    RangeKey = "last3months"
	RangeLast6Mo    RangeKey = "last6months"
	RangeLastYear   RangeKey = "lastYear"
	RangeAllTime    RangeKey = "allTime"
	RangeCustom     RangeKey = "custom"
)

// DateRange is a concrete time window. A zero bound is unconstrained on that
// side; a fully zero range means "all time".
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsAllTime reports whether the range constrains nothing.
func (r DateRange) IsAllTime() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// UnixBounds converts the window to the upstream since/until parameters.
// A zero bound yields 0, meaning "omit the parameter".
func (r DateRange) UnixBounds() (since, until int64) {
	if !r.From.IsZero() {
		since = r.From.Unix()
	}
	if !r.To.IsZero() {
		until = r.To.Unix()
	}
	return since, until
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// startOfMonthOffset returns the first instant of the month `offset` months
// away from t's month. Computed on day 1 so month arithmetic never spills
// into a neighboring month.
func startOfMonthOffset(t time.Time, offset int) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+time.Month(offset), 1, 0, 0, 0, 0, t.Location())
}

// ResolveRange computes the concrete window and display label for a
// predefined bucket at the given instant. RangeCustom resolves to nothing:
// custom bounds are supplied explicitly by the caller.
func ResolveRange(key RangeKey, now time.Time) (DateRange, string) {
	switch key {
	case RangeToday:
		return DateRange{From: startOfDay(now), To: endOfDay(now)}, "Today"
	case RangeYesterday:
		y := now.AddDate(0, 0, -1)
		return DateRange{From: startOfDay(y), To: endOfDay(y)}, "Yesterday"
	case RangeLast7Days:
		return DateRange{From: startOfDay(now.AddDate(0, 0, -6)), To: endOfDay(now)}, "Last 7 days"
	case RangeLast30Days:
		return DateRange{From: startOfDay(now.AddDate(0, 0, -29)), To: endOfDay(now)}, "Last 30 days"
	case RangeThisMonth:
		return DateRange{From: startOfMonthOffset(now, 0), To: endOfDay(now)}, "This month"
	case RangeLastMonth:
		return DateRange{
			From: startOfMonthOffset(now, -1),
			To:   startOfMonthOffset(now, 0).Add(-time.Nanosecond),
		}, "Last month"
	case RangeLast3Mo:
		return DateRange{From: startOfMonthOffset(now, -2), To: endOfDay(now)}, "Last 3 months"
	case RangeLast6Mo:
		return DateRange{From: startOfMonthOffset(now, -5), To: endOfDay(now)}, "Last 6 months"
	case RangeLastYear:
		return DateRange{From: startOfDay(now.AddDate(0, 0, -364)), To: endOfDay(now)}, "Last year"
	case RangeAllTime:
		return DateRange{}, "All time"
	default:
		return DateRange{}, ""
	}
}

// ParseCustomRange builds a window from explicit YYYY-MM-DD bounds. Either
// bound may be empty, leaving that side open. The "to" date is inclusive: the
// window extends to the last instant of that day.
func ParseCustomRange(from, to string) (DateRange, error) {
	const day = "2006-01-02"
	var window DateRange

	if from != "" {
		t, err := time.Parse(day, from)
		if err != nil {
			return DateRange{}, err
		}
		window.From = startOfDay(t)
	}
	if to != "" {
		t, err := time.Parse(day, to)
		if err != nil {
			return DateRange{}, err
		}
		window.To = endOfDay(t)
	}
	return window, nil
}

// FilenameLabel derives the deterministic filename fragment for the active
// date selection: the predefined label for buckets, explicit dates for custom
// ranges, all_time otherwise.
func FilenameLabel(key RangeKey, window DateRange, label string) string {
	if key != RangeAllTime && key != RangeCustom && label != "" {
		return strings.ReplaceAll(strings.ToLower(label), " ", "_")
	}
	const day = "2006-01-02"
	switch {
	case !window.From.IsZero() && !window.To.IsZero():
		return window.From.Format(day) + "_to_" + window.To.Format(day)
	case !window.From.IsZero():
		return "from_" + window.From.Format(day)
	case !window.To.IsZero():
		return "until_" + window.To.Format(day)
	default:
		return "all_time"
	}
}
