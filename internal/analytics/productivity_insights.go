package analytics

import (
	"fmt"
	"sort"

	"github.com/fentz26/taskpulse/internal/models"
)

// Thresholds for the scored insights.
const (
	minTasksForPatterns  = 5
	minStreakAchievement = 3
	balanceThreshold     = 50
	efficiencyThreshold  = 60
)

// GenerateProductivityInsights returns scored insights sorted by score descending.
func GenerateProductivityInsights(data models.AnalyticsData) []models.ProductivityInsight {
	var insights []models.ProductivityInsight
	add := func(in models.ProductivityInsight, ok bool) {
		if ok {
			insights = append(insights, in)
		}
	}

	add(peakHourInsight(data))
	add(streakAchievement(data))
	add(completionAchievement(data))
	add(overdueWarning(data))
	add(categoryBalanceInsight(data))
	add(efficiencyInsight(data))

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Score > insights[j].Score
	})
	if insights == nil {
		insights = []models.ProductivityInsight{}
	}
	return insights
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func peakHourInsight(data models.AnalyticsData) (models.ProductivityInsight, bool) {
	total := data.TaskStats.Total
	if total < minTasksForPatterns || len(data.TimeStats.Hourly) == 0 {
		return models.ProductivityInsight{}, false
	}
	peak := 0
	for h, b := range data.TimeStats.Hourly {
		if b.Count > data.TimeStats.Hourly[peak].Count {
			peak = h
		}
	}
	share := percent(data.TimeStats.Hourly[peak].Count, total)
	score := 60 + share
	if score > 95 {
		score = 95
	}
	return models.ProductivityInsight{
		ID:          "pattern-peak-hour",
		Title:       "Hora de mayor actividad",
		Description: fmt.Sprintf("Sueles crear tareas alrededor de las %s (%d%% del total).", data.TimeStats.Hourly[peak].Label, share),
		Type:        models.InsightPattern,
		Score:       score,
		Data:        map[string]interface{}{"hour": peak, "share": share},
	}, true
}

func streakAchievement(data models.AnalyticsData) (models.ProductivityInsight, bool) {
	streak := data.ProductivityStats.CurrentStreak
	if streak < minStreakAchievement {
		return models.ProductivityInsight{}, false
	}
	return models.ProductivityInsight{
		ID:          "achievement-streak",
		Title:       "Racha activa",
		Description: fmt.Sprintf("Llevas %d días seguidos completando tareas.", streak),
		Type:        models.InsightAchievement,
		Score:       clampScore(50 + 5*streak),
		Data:        map[string]interface{}{"streak": streak},
	}, true
}

func completionAchievement(data models.AnalyticsData) (models.ProductivityInsight, bool) {
	ts := data.TaskStats
	if ts.Total < minTasksForPatterns || ts.CompletionRate < 80 {
		return models.ProductivityInsight{}, false
	}
	return models.ProductivityInsight{
		ID:          "achievement-completion",
		Title:       "Alta tasa de finalización",
		Description: fmt.Sprintf("Has completado el %.0f%% de tus tareas.", ts.CompletionRate),
		Type:        models.InsightAchievement,
		Score:       clampScore(int(ts.CompletionRate)),
		Data:        map[string]interface{}{"completionRate": ts.CompletionRate},
	}, true
}

func overdueWarning(data models.AnalyticsData) (models.ProductivityInsight, bool) {
	overdue := data.TaskStats.Overdue
	if overdue == 0 {
		return models.ProductivityInsight{}, false
	}
	return models.ProductivityInsight{
		ID:          "warning-overdue",
		Title:       "Tareas vencidas",
		Description: fmt.Sprintf("Hay %d tareas pendientes con la fecha límite superada.", overdue),
		Type:        models.InsightWarning,
		Score:       clampScore(60 + 5*overdue),
		Data:        map[string]interface{}{"overdue": overdue},
	}, true
}

// CategoryBalance is 100 minus the spread between the largest and smallest category share.
// It returns false when fewer than two categories have tasks.
func CategoryBalance(categories []models.CategoryStats) (int, bool) {
	if len(categories) < 2 {
		return 0, false
	}
	maxShare, minShare := categories[0].Percentage, categories[0].Percentage
	for _, cs := range categories[1:] {
		if cs.Percentage > maxShare {
			maxShare = cs.Percentage
		}
		if cs.Percentage < minShare {
			minShare = cs.Percentage
		}
	}
	return clampScore(100 - (maxShare - minShare)), true
}

func categoryBalanceInsight(data models.AnalyticsData) (models.ProductivityInsight, bool) {
	balance, ok := CategoryBalance(data.CategoryStats)
	if !ok || balance >= balanceThreshold {
		return models.ProductivityInsight{}, false
	}
	top := data.CategoryStats[0].Category
	return models.ProductivityInsight{
		ID:          "recommendation-category-balance",
		Title:       "Equilibrio entre categorías",
		Description: fmt.Sprintf("La mayoría de tus tareas están en %q. Reserva tiempo para otras áreas.", top),
		Type:        models.InsightRecommendation,
		Score:       clampScore(100 - balance),
		Data:        map[string]interface{}{"balance": balance, "dominant": top},
	}, true
}

// TimeEfficiency is the share of completed tasks among completed plus overdue ones.
// It returns false when there is nothing to measure.
func TimeEfficiency(ts models.TaskStats) (int, bool) {
	denom := ts.Completed + ts.Overdue
	if denom == 0 {
		return 0, false
	}
	return percent(ts.Completed, denom), true
}

func efficiencyInsight(data models.AnalyticsData) (models.ProductivityInsight, bool) {
	efficiency, ok := TimeEfficiency(data.TaskStats)
	if !ok || data.TaskStats.Overdue == 0 || efficiency >= efficiencyThreshold {
		return models.ProductivityInsight{}, false
	}
	return models.ProductivityInsight{
		ID:          "warning-time-efficiency",
		Title:       "Gestión del tiempo",
		Description: fmt.Sprintf("Tu eficiencia es del %d%%: muchas tareas vencen antes de completarse. Ajusta las fechas límite o reduce la carga.", efficiency),
		Type:        models.InsightWarning,
		Score:       clampScore(100 - efficiency),
		Data:        map[string]interface{}{"efficiency": efficiency},
	}, true
}
