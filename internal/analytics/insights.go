package analytics

import (
	"fmt"

	"github.com/fentz26/taskpulse/internal/models"
)

// InsightRule appends zero or one insight for the given aggregate.
type InsightRule func(data models.AnalyticsData) (string, bool)

// insightRules is evaluated in order; the order is display order, not precedence.
var insightRules = []InsightRule{
	completionRateInsight,
	overdueInsight,
	dominantCategoryInsight,
	prioritySkewInsight,
	streakInsight,
	productiveDayInsight,
}

// GenerateInsights runs every rule and returns the insights that apply.
func GenerateInsights(data models.AnalyticsData) []string {
	insights := []string{}
	for _, rule := range insightRules {
		if msg, ok := rule(data); ok {
			insights = append(insights, msg)
		}
	}
	return insights
}

func completionRateInsight(data models.AnalyticsData) (string, bool) {
	ts := data.TaskStats
	if ts.Total == 0 {
		return "", false
	}
	rate := int(ts.CompletionRate)
	switch {
	case ts.CompletionRate > 80:
		return fmt.Sprintf("¡Excelente! Has completado el %d%% de tus tareas.", rate), true
	case ts.CompletionRate >= 60:
		return fmt.Sprintf("Buen trabajo: llevas un %d%% de tareas completadas. ¡Sigue así!", rate), true
	case ts.CompletionRate < 40:
		return fmt.Sprintf("Tu tasa de finalización es del %d%%. Prueba a dividir las tareas grandes en pasos más pequeños.", rate), true
	}
	return "", false
}

func overdueInsight(data models.AnalyticsData) (string, bool) {
	n := data.TaskStats.Overdue
	if n <= 0 {
		return "", false
	}
	if n == 1 {
		return "Tienes 1 tarea vencida. Revisa su fecha límite.", true
	}
	return fmt.Sprintf("Tienes %d tareas vencidas. Revisa sus fechas límite.", n), true
}

func dominantCategoryInsight(data models.AnalyticsData) (string, bool) {
	for _, cs := range data.CategoryStats {
		if cs.Category == models.UncategorizedLabel {
			continue
		}
		if cs.Percentage > 40 {
			return fmt.Sprintf("La categoría %q concentra el %d%% de tus tareas.", cs.Category, cs.Percentage), true
		}
		// Sorted by total, so later categories cannot exceed this one.
		return "", false
	}
	return "", false
}

func prioritySkewInsight(data models.AnalyticsData) (string, bool) {
	ps := data.PriorityStats
	rest := ps.Medium.Count + ps.Low.Count
	if ps.High.Count == 0 || ps.High.Count <= rest {
		return "", false
	}
	return fmt.Sprintf("Tienes más tareas de prioridad alta (%d) que de prioridad media y baja juntas (%d). Revisa si todas son realmente urgentes.", ps.High.Count, rest), true
}

func streakInsight(data models.AnalyticsData) (string, bool) {
	streak := data.ProductivityStats.CurrentStreak
	switch {
	case streak > 7:
		return fmt.Sprintf("¡Racha excepcional de %d días seguidos completando tareas!", streak), true
	case streak > 3:
		return fmt.Sprintf("Buena racha: %d días seguidos completando tareas.", streak), true
	}
	return "", false
}

func productiveDayInsight(data models.AnalyticsData) (string, bool) {
	day := data.ProductivityStats.MostProductiveDay
	if day == "" || day == models.NoDataLabel {
		return "", false
	}
	return fmt.Sprintf("Tu día más productivo es el %s.", day), true
}
