package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday mid-month, mid-day, so every bucket boundary is unambiguous.
var fixedNow = time.Date(2024, time.March, 13, 15, 30, 45, 0, time.UTC)

func TestResolveRangeBuckets(t *testing.T) {
	tests := []struct {
		key       RangeKey
		wantFrom  time.Time
		wantTo    time.Time
		wantLabel string
	}{
		{
			key:       RangeToday,
			wantFrom:  time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, time.March, 13, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
			wantLabel: "Today",
		},
		{
			key:       RangeYesterday,
			wantFrom:  time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, time.March, 12, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
			wantLabel: "Yesterday",
		},
		{
			key:       RangeLast7Days,
			wantFrom:  time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, time.March, 13, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
			wantLabel: "Last 7 days",
		},
		{
			key:       RangeLast30Days,
			wantFrom:  time.Date(2024, time.February, 13, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, time.March, 13, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
			wantLabel: "Last 30 days",
		},
		{
			key:       RangeThisMonth,
			wantFrom:  time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, time.March, 13, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
			wantLabel: "This month",
		},
		{
			key:       RangeLastMonth,
			wantFrom:  time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
			wantLabel: "Last month",
		},
		{
			key:       RangeLast3Mo,
			wantFrom:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, time.March, 13, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
			wantLabel: "Last 3 months",
		},
		{
			key:       RangeLast6Mo,
			wantFrom:  time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, time.March, 13, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
			wantLabel: "Last 6 months",
		},
		{
			key:       RangeLastYear,
			wantFrom:  time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, time.March, 13, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
			wantLabel: "Last year",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			window, label := ResolveRange(tt.key, fixedNow)
			assert.Equal(t, tt.wantLabel, label)
			assert.True(t, window.From.Equal(tt.wantFrom), "from: got %v, want %v", window.From, tt.wantFrom)
			assert.True(t, window.To.Equal(tt.wantTo), "to: got %v, want %v", window.To, tt.wantTo)
		})
	}
}

func TestResolveRangeAllTime(t *testing.T) {
	window, label := ResolveRange(RangeAllTime, fixedNow)
	assert.Equal(t, "All time", label)
	assert.True(t, window.IsAllTime())
}

func TestResolveRangeUnknownKey(t *testing.T) {
	window, label := ResolveRange(RangeKey("fortnight"), fixedNow)
	assert.Empty(t, label)
	assert.True(t, window.IsAllTime())
}

func TestResolveRangeMonthBoundary(t *testing.T) {
	// On January 31 the month-based buckets must not spill into March.
	now := time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC)

	window, _ := ResolveRange(RangeLastMonth, now)
	assert.Equal(t, time.December, window.From.Month())
	assert.Equal(t, 2023, window.From.Year())
	assert.Equal(t, time.December, window.To.Month())

	window, _ = ResolveRange(RangeLast3Mo, now)
	assert.Equal(t, time.November, window.From.Month())
	assert.Equal(t, 2023, window.From.Year())
}

func TestParseCustomRange(t *testing.T) {
	window, err := ParseCustomRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), window.From)
	// The "to" date is inclusive through its last instant.
	assert.Equal(t, 31, window.To.Day())
	assert.Equal(t, 23, window.To.Hour())

	window, err = ParseCustomRange("2024-01-01", "")
	require.NoError(t, err)
	assert.False(t, window.From.IsZero())
	assert.True(t, window.To.IsZero())

	_, err = ParseCustomRange("01/01/2024", "")
	assert.Error(t, err)
}

func TestUnixBounds(t *testing.T) {
	window := DateRange{
		From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
	}
	since, until := window.UnixBounds()
	assert.Equal(t, window.From.Unix(), since)
	assert.Equal(t, window.To.Unix(), until)

	since, until = DateRange{}.UnixBounds()
	assert.Zero(t, since)
	assert.Zero(t, until)
}

func TestFilterLeadsByWindow(t *testing.T) {
	stamp := func(t time.Time) string { return t.Format("2006-01-02T15:04:05-0700") }
	window := DateRange{
		From: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
	}

	inside := Lead{ID: "in", CreatedTime: stamp(time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC))}
	onFrom := Lead{ID: "on-from", CreatedTime: stamp(window.From)}
	onTo := Lead{ID: "on-to", CreatedTime: stamp(window.To)}
	before := Lead{ID: "before", CreatedTime: stamp(window.From.Add(-time.Second))}
	after := Lead{ID: "after", CreatedTime: stamp(window.To.Add(time.Second))}
	garbage := Lead{ID: "garbage", CreatedTime: "not a timestamp"}

	filtered := FilterLeadsByWindow([]Lead{inside, onFrom, onTo, before, after, garbage}, window)

	ids := make([]string, 0, len(filtered))
	for _, l := range filtered {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"in", "on-from", "on-to"}, ids)
}

func TestFilterLeadsByWindowOpenBounds(t *testing.T) {
	leads := []Lead{
		{ID: "a", CreatedTime: "2024-03-01T00:00:00+0000"},
		{ID: "b", CreatedTime: "2024-03-20T00:00:00+0000"},
	}

	// All-time passes everything through untouched, unparsable or not.
	all := FilterLeadsByWindow(append(leads, Lead{ID: "c", CreatedTime: "junk"}), DateRange{})
	assert.Len(t, all, 3)

	fromOnly := FilterLeadsByWindow(leads, DateRange{From: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)})
	require.Len(t, fromOnly, 1)
	assert.Equal(t, "b", fromOnly[0].ID)

	toOnly := FilterLeadsByWindow(leads, DateRange{To: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)})
	require.Len(t, toOnly, 1)
	assert.Equal(t, "a", toOnly[0].ID)
}

func TestFilenameLabel(t *testing.T) {
	window, label := ResolveRange(RangeLast7Days, fixedNow)
	assert.Equal(t, "last_7_days", FilenameLabel(RangeLast7Days, window, label))

	custom := DateRange{
		From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC),
	}
	assert.Equal(t, "2024-01-01_to_2024-01-31", FilenameLabel(RangeCustom, custom, ""))
	assert.Equal(t, "from_2024-01-01", FilenameLabel(RangeCustom, DateRange{From: custom.From}, ""))
	assert.Equal(t, "until_2024-01-31", FilenameLabel(RangeCustom, DateRange{To: custom.To}, ""))
	assert.Equal(t, "all_time", FilenameLabel(RangeAllTime, DateRange{}, "All time"))
}
