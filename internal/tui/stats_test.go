package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fentz26/taskpulse/internal/controlplane"
	"github.com/fentz26/taskpulse/internal/models"
)

func TestRenderStats(t *testing.T) {
	data := models.AnalyticsData{
		TaskStats: models.TaskStats{Total: 4, Completed: 3, Pending: 1, CompletionRate: 75},
		CategoryStats: []models.CategoryStats{
			{Category: "trabajo", Total: 3, Percentage: 75},
			{Category: models.UncategorizedLabel, Total: 1, Percentage: 25},
		},
		ProductivityStats: models.ProductivityStats{CurrentStreak: 2, MostProductiveDay: "Martes"},
		TimeStats: models.TimeStats{Daily: []models.Bucket{
			{Label: "Lun", Count: 1},
			{Label: "Mar", Count: 3},
		}},
	}

	out := RenderStats(data)
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "trabajo")
	assert.Contains(t, out, models.UncategorizedLabel)
	assert.Contains(t, out, "Martes")
	assert.Contains(t, out, "2 días")

	empty := RenderStats(models.AnalyticsData{})
	assert.Contains(t, empty, models.NoDataLabel)
}

func TestRenderInsights(t *testing.T) {
	out := RenderInsights(controlplane.InsightsResponse{
		Insights: []string{"Tienes 2 tareas vencidas"},
		Productivity: []models.ProductivityInsight{
			{ID: "warning-overdue", Title: "Tareas vencidas", Description: "Revisa tus pendientes", Type: models.InsightWarning, Score: 70},
		},
	})
	assert.Contains(t, out, "Tienes 2 tareas vencidas")
	assert.Contains(t, out, "Tareas vencidas")
	assert.Contains(t, out, "(70)")

	assert.Contains(t, RenderInsights(controlplane.InsightsResponse{}), models.NoDataLabel)
}

func TestRenderGoals(t *testing.T) {
	out := RenderGoals([]models.Goal{
		{ID: "daily-tasks", Title: "Tareas diarias", Target: 3, Current: 5, Completed: true},
		{ID: "custom", Title: "Leer", Target: 0, Current: 0},
	})
	assert.Contains(t, out, "Tareas diarias")
	assert.Contains(t, out, "5/3")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "0/0")
}
