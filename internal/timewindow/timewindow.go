// Package timewindow provides calendar window math shared by analytics and goal tracking.
//
// All helpers are anchored to the location of the supplied "now" value, so
// callers control the calendar by choosing the location of their clock.
package timewindow

import (
	"fmt"
	"time"

	"github.com/fentz26/taskpulse/internal/models"
)

// MaxStreakLookback caps how many days Streak walks backward.
const MaxStreakLookback = 365

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls in the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the most recent day with weekday index 0 (Sunday).
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// StartOfMonth returns midnight of day 1 of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// Today is the midnight-to-midnight window containing now.
func Today(now time.Time) Window {
	start := StartOfDay(now)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// ThisWeek is the calendar week containing now.
func ThisWeek(now time.Time) Window {
	start := StartOfWeek(now)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// ThisMonth is the calendar month containing now.
func ThisMonth(now time.Time) Window {
	start := StartOfMonth(now)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// WithinDays reports whether t lies in [now-days, now].
func WithinDays(t, now time.Time, days int) bool {
	from := now.AddDate(0, 0, -days)
	return !t.Before(from) && !t.After(now)
}

// DaysBetween returns the signed number of days from a to b as a float.
func DaysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time, loc *time.Location) dayKey {
	y, m, d := t.In(loc).Date()
	return dayKey{y, m, d}
}

// Streak counts consecutive calendar days ending today that contain at least one
// timestamp. An empty today does not break the streak; the walk is capped at
// MaxStreakLookback days.
func Streak(timestamps []time.Time, now time.Time) int {
	loc := now.Location()
	counts := make(map[dayKey]int, len(timestamps))
	for _, ts := range timestamps {
		counts[keyOf(ts, loc)]++
	}

	today := StartOfDay(now)
	streak := 0
	for i := 0; i < MaxStreakLookback; i++ {
		day := today.AddDate(0, 0, -i)
		if counts[keyOf(day, loc)] == 0 {
			if i == 0 {
				continue
			}
			break
		}
		streak++
	}
	return streak
}

// Hourly buckets timestamps by local hour of day into 24 zero-filled buckets.
func Hourly(timestamps []time.Time, loc *time.Location) []models.Bucket {
	buckets := make([]models.Bucket, 24)
	for h := range buckets {
		buckets[h].Label = fmt.Sprintf("%02d:00", h)
	}
	for _, ts := range timestamps {
		buckets[ts.In(loc).Hour()].Count++
	}
	return buckets
}

// LastDays buckets timestamps into the n calendar days ending today, oldest first.
func LastDays(timestamps []time.Time, now time.Time, n int) []models.Bucket {
	loc := now.Location()
	today := StartOfDay(now)
	buckets := make([]models.Bucket, n)
	index := make(map[dayKey]int, n)
	for i := 0; i < n; i++ {
		day := today.AddDate(0, 0, i-(n-1))
		buckets[i].Label = day.Format("2006-01-02")
		index[keyOf(day, loc)] = i
	}
	for _, ts := range timestamps {
		if i, ok := index[keyOf(ts, loc)]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// LastMonths buckets timestamps into the n calendar months ending with the current one, oldest first.
func LastMonths(timestamps []time.Time, now time.Time, n int) []models.Bucket {
	loc := now.Location()
	current := StartOfMonth(now)
	type monthKey struct {
		year  int
		month time.Month
	}
	buckets := make([]models.Bucket, n)
	index := make(map[monthKey]int, n)
	for i := 0; i < n; i++ {
		month := current.AddDate(0, i-(n-1), 0)
		buckets[i].Label = month.Format("2006-01")
		index[monthKey{month.Year(), month.Month()}] = i
	}
	for _, ts := range timestamps {
		local := ts.In(loc)
		if i, ok := index[monthKey{local.Year(), local.Month()}]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}
