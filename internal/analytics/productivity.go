package analytics

import (
	"math"
	"time"

	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/timewindow"
)

// weekdayNames is indexed by time.Weekday.
var weekdayNames = [7]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// WeekdayName returns the display name for a weekday.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// completedTimestamps returns the activity timestamps of completed tasks.
// There is no completion timestamp in the data model, so creation time stands in for it.
func completedTimestamps(tasks []models.Task) []time.Time {
	var ts []time.Time
	for _, t := range tasks {
		if t.Completed {
			ts = append(ts, t.CreatedAt)
		}
	}
	return ts
}

// ComputeProductivityStats derives window counts, average age, best weekday and streak.
func ComputeProductivityStats(tasks []models.Task, now time.Time) models.ProductivityStats {
	stats := models.ProductivityStats{MostProductiveDay: models.NoDataLabel}

	completed := completedTimestamps(tasks)
	if len(completed) == 0 {
		return stats
	}

	today := timewindow.Today(now)
	week := timewindow.ThisWeek(now)
	month := timewindow.ThisMonth(now)

	var totalDays float64
	aged := 0
	weekdayCounts := make(map[time.Weekday]int, 7)
	var weekdayOrder []time.Weekday

	for _, ts := range completed {
		if today.Contains(ts) {
			stats.TasksCompletedToday++
		}
		if week.Contains(ts) {
			stats.TasksCompletedThisWeek++
		}
		if month.Contains(ts) {
			stats.TasksCompletedThisMonth++
		}

		// Tasks dated after now have no age yet and stay out of the mean.
		if !ts.After(now) {
			totalDays += timewindow.DaysBetween(ts, now)
			aged++
		}

		wd := ts.In(now.Location()).Weekday()
		if _, seen := weekdayCounts[wd]; !seen {
			weekdayOrder = append(weekdayOrder, wd)
		}
		weekdayCounts[wd]++
	}

	if aged > 0 {
		stats.AverageCompletionTime = math.Round(totalDays/float64(aged)*10) / 10
	}

	best, bestCount := weekdayOrder[0], 0
	for _, wd := range weekdayOrder {
		if weekdayCounts[wd] > bestCount {
			best, bestCount = wd, weekdayCounts[wd]
		}
	}
	stats.MostProductiveDay = WeekdayName(best)
	stats.CurrentStreak = timewindow.Streak(completed, now)
	return stats
}

// ComputeTimeStats builds creation distributions over all tasks.
func ComputeTimeStats(tasks []models.Task, now time.Time) models.TimeStats {
	created := make([]time.Time, 0, len(tasks))
	for _, t := range tasks {
		created = append(created, t.CreatedAt)
	}
	return models.TimeStats{
		Hourly:  timewindow.Hourly(created, now.Location()),
		Daily:   timewindow.LastDays(created, now, 7),
		Monthly: timewindow.LastMonths(created, now, 6),
	}
}
