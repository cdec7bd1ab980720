package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 2026-10-14 15:30 UTC.
var now = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func TestWindows(t *testing.T) {
	today := Today(now)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), today.Start)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), today.End)

	week := ThisWeek(now)
	assert.Equal(t, time.Sunday, week.Start.Weekday())
	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), week.Start)

	month := ThisMonth(now)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), month.Start)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), month.End)

	assert.True(t, today.Contains(today.Start))
	assert.False(t, today.Contains(today.End))
}

func TestWithinDays(t *testing.T) {
	assert.True(t, WithinDays(now.AddDate(0, 0, -3), now, 7))
	assert.False(t, WithinDays(now.AddDate(0, 0, -8), now, 7))
	assert.False(t, WithinDays(now.Add(time.Hour), now, 7))
}

func daysBack(n int) []time.Time {
	var ts []time.Time
	for i := 0; i < n; i++ {
		day := now.AddDate(0, 0, -i)
		for j := 0; j < 5; j++ {
			ts = append(ts, day.Add(-time.Duration(j)*time.Minute))
		}
	}
	return ts
}

func TestStreak(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0, Streak(nil, now))
	})

	t.Run("ten consecutive days", func(t *testing.T) {
		assert.Equal(t, 10, Streak(daysBack(10), now))
	})

	t.Run("gap yesterday", func(t *testing.T) {
		var ts []time.Time
		yesterday := StartOfDay(now).AddDate(0, 0, -1)
		for _, x := range daysBack(10) {
			if !Today(yesterday).Contains(x) {
				ts = append(ts, x)
			}
		}
		assert.Equal(t, 1, Streak(ts, now))
	})

	t.Run("empty today does not break", func(t *testing.T) {
		var ts []time.Time
		for _, x := range daysBack(4) {
			if !Today(now).Contains(x) {
				ts = append(ts, x)
			}
		}
		assert.Equal(t, 3, Streak(ts, now))
	})

	t.Run("capped lookback", func(t *testing.T) {
		assert.Equal(t, MaxStreakLookback, Streak(daysBack(400), now))
	})
}

func TestBucketsAreZeroFilled(t *testing.T) {
	hourly := Hourly(nil, time.UTC)
	require.Len(t, hourly, 24)
	assert.Equal(t, "00:00", hourly[0].Label)
	assert.Equal(t, "23:00", hourly[23].Label)

	daily := LastDays(nil, now, 7)
	require.Len(t, daily, 7)
	assert.Equal(t, "2026-10-08", daily[0].Label)
	assert.Equal(t, "2026-10-14", daily[6].Label)

	monthly := LastMonths(nil, now, 6)
	require.Len(t, monthly, 6)
	assert.Equal(t, "2026-05", monthly[0].Label)
	assert.Equal(t, "2026-10", monthly[5].Label)
}

func TestBucketCounts(t *testing.T) {
	ts := []time.Time{
		now,
		now.Add(-time.Hour),
		now.AddDate(0, 0, -6),
		now.AddDate(0, 0, -7),
		now.AddDate(0, -5, 0),
		now.AddDate(-1, 0, 0),
	}

	hourly := Hourly(ts, time.UTC)
	assert.Equal(t, 5, hourly[15].Count)
	assert.Equal(t, 1, hourly[14].Count)

	daily := LastDays(ts, now, 7)
	assert.Equal(t, 2, daily[6].Count)
	assert.Equal(t, 1, daily[0].Count)

	monthly := LastMonths(ts, now, 6)
	assert.Equal(t, 4, monthly[5].Count)
	assert.Equal(t, 1, monthly[0].Count)
}
