// Package analytics turns a snapshot of task records into statistics and insights.
//
// Every function here is pure over its arguments: the task slice and the
// caller-supplied "now". Missing fields degrade to sentinel values instead of errors.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fentz26/taskpulse/internal/models"
)

// percent returns part/total*100 rounded to the nearest integer, or 0 when total is 0.
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// CategoryLabel returns the grouping label for a task's category.
func CategoryLabel(t models.Task) string {
	if t.Category == nil || strings.TrimSpace(*t.Category) == "" {
		return models.UncategorizedLabel
	}
	return *t.Category
}

// ComputeTaskStats counts totals, completion and overdue tasks.
func ComputeTaskStats(tasks []models.Task, now time.Time) models.TaskStats {
	var stats models.TaskStats
	for _, t := range tasks {
		stats.Total++
		if t.Completed {
			stats.Completed++
			continue
		}
		stats.Pending++
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	stats.CompletionRate = float64(percent(stats.Completed, stats.Total))
	return stats
}

// ComputeCategoryStats groups tasks by category, sorted by total descending.
// Ties keep the order in which categories first appear.
func ComputeCategoryStats(tasks []models.Task) []models.CategoryStats {
	byName := make(map[string]*models.CategoryStats)
	var order []string
	for _, t := range tasks {
		label := CategoryLabel(t)
		cs, ok := byName[label]
		if !ok {
			cs = &models.CategoryStats{Category: label}
			byName[label] = cs
			order = append(order, label)
		}
		cs.Total++
		if t.Completed {
			cs.Completed++
		} else {
			cs.Pending++
		}
	}

	result := make([]models.CategoryStats, 0, len(order))
	for _, name := range order {
		cs := byName[name]
		cs.Percentage = percent(cs.Total, len(tasks))
		cs.CompletionRate = float64(percent(cs.Completed, cs.Total))
		result = append(result, *cs)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total > result[j].Total
	})
	return result
}

// ComputePriorityStats counts tasks per priority; unknown or missing priorities are unassigned.
func ComputePriorityStats(tasks []models.Task) models.PriorityStats {
	var stats models.PriorityStats
	for _, t := range tasks {
		bucket := &stats.Unassigned
		if t.Priority != nil {
			switch *t.Priority {
			case models.PriorityHigh:
				bucket = &stats.High
			case models.PriorityMedium:
				bucket = &stats.Medium
			case models.PriorityLow:
				bucket = &stats.Low
			}
		}
		bucket.Count++
		if t.Completed {
			bucket.Completed++
		}
	}

	total := len(tasks)
	for _, b := range []*models.PriorityBucket{&stats.High, &stats.Medium, &stats.Low, &stats.Unassigned} {
		b.Percentage = percent(b.Count, total)
	}
	return stats
}
