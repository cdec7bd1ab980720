// Package goals recomputes progress for recurring daily, weekly and monthly goals.
package goals

import (
	"context"
	"time"

	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/timewindow"
)

// Store persists the goal list between sessions.
type Store interface {
	LoadGoals(ctx context.Context) ([]models.Goal, error)
	SaveGoals(ctx context.Context, goals []models.Goal) error
}

// WindowFor returns the calendar window a goal period covers at now.
func WindowFor(period models.GoalPeriod, now time.Time) timewindow.Window {
	switch period {
	case models.GoalWeekly:
		return timewindow.ThisWeek(now)
	case models.GoalMonthly:
		return timewindow.ThisMonth(now)
	default:
		return timewindow.Today(now)
	}
}

// UpdateGoalProgress returns a copy of goals with current and completed
// recomputed from tasks. The input slice is not modified and repeated calls
// with the same arguments give the same result.
func UpdateGoalProgress(goals []models.Goal, tasks []models.Task, now time.Time) []models.Goal {
	out := make([]models.Goal, len(goals))
	for i, g := range goals {
		w := WindowFor(g.Type, now)
		switch g.Category {
		case models.GoalCategoryTasks:
			g.Current = completedIn(tasks, w)
		case models.GoalCategoryProductivity:
			g.Current = completionRateIn(tasks, w)
		}
		g.StartDate, g.EndDate = w.Start, w.End
		g.Completed = g.Current >= g.Target
		out[i] = g
	}
	return out
}

// completedIn counts completed tasks whose activity timestamp lies in w.
// Creation time stands in for completion time.
func completedIn(tasks []models.Task, w timewindow.Window) int {
	n := 0
	for _, t := range tasks {
		if t.Completed && w.Contains(t.CreatedAt) {
			n++
		}
	}
	return n
}

// completionRateIn is the rounded completion percentage of tasks created in w.
func completionRateIn(tasks []models.Task, w timewindow.Window) int {
	total, done := 0, 0
	for _, t := range tasks {
		if !w.Contains(t.CreatedAt) {
			continue
		}
		total++
		if t.Completed {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return (done*100 + total/2) / total
}
