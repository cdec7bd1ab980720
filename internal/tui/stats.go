package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/taskpulse/internal/controlplane"
	"github.com/fentz26/taskpulse/internal/models"
)

const barWidth = 24

// RenderStats renders the analytics aggregate as static panels.
func RenderStats(data models.AnalyticsData) string {
	ts := data.TaskStats
	ps := data.ProductivityStats

	summary := strings.Join([]string{
		titleStyle.Render("Resumen"),
		row("Total", fmt.Sprint(ts.Total)),
		row("Completadas", fmt.Sprint(ts.Completed)),
		row("Pendientes", fmt.Sprint(ts.Pending)),
		row("Vencidas", fmt.Sprint(ts.Overdue)),
		row("Tasa de finalización", fmt.Sprintf("%.0f%%", ts.CompletionRate)),
	}, "\n")

	productivity := strings.Join([]string{
		titleStyle.Render("Productividad"),
		row("Hoy", fmt.Sprint(ps.TasksCompletedToday)),
		row("Esta semana", fmt.Sprint(ps.TasksCompletedThisWeek)),
		row("Este mes", fmt.Sprint(ps.TasksCompletedThisMonth)),
		row("Racha actual", fmt.Sprintf("%d días", ps.CurrentStreak)),
		row("Día más productivo", ps.MostProductiveDay),
	}, "\n")

	top := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(summary), " ", panelStyle.Render(productivity))

	var cats strings.Builder
	cats.WriteString(titleStyle.Render("Categorías") + "\n")
	if len(data.CategoryStats) == 0 {
		cats.WriteString(descStyle.Render(models.NoDataLabel))
	}
	for _, c := range data.CategoryStats {
		cats.WriteString(fmt.Sprintf("%-14s %s %3d%%\n", c.Category, bar(c.Total, data.TaskStats.Total), c.Percentage))
	}

	pr := data.PriorityStats
	priorities := strings.Join([]string{
		titleStyle.Render("Prioridades"),
		fmt.Sprintf("%-14s %s %3d%%", "Alta", bar(pr.High.Count, ts.Total), pr.High.Percentage),
		fmt.Sprintf("%-14s %s %3d%%", "Media", bar(pr.Medium.Count, ts.Total), pr.Medium.Percentage),
		fmt.Sprintf("%-14s %s %3d%%", "Baja", bar(pr.Low.Count, ts.Total), pr.Low.Percentage),
		fmt.Sprintf("%-14s %s %3d%%", "Sin prioridad", bar(pr.Unassigned.Count, ts.Total), pr.Unassigned.Percentage),
	}, "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		panelStyle.Render(strings.TrimRight(cats.String(), "\n")),
		panelStyle.Render(priorities),
		panelStyle.Render(renderBuckets("Últimos 7 días", data.TimeStats.Daily)),
	)
}

// RenderInsights renders rule-based and scored insights.
func RenderInsights(resp controlplane.InsightsResponse) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Observaciones") + "\n")
	for _, line := range resp.Insights {
		b.WriteString("  • " + line + "\n")
	}
	if len(resp.Insights) == 0 {
		b.WriteString("  " + descStyle.Render(models.NoDataLabel) + "\n")
	}

	if len(resp.Productivity) > 0 {
		b.WriteString("\n" + titleStyle.Render("Análisis") + "\n")
	}
	for _, in := range resp.Productivity {
		style := labelStyle
		switch in.Type {
		case models.InsightWarning:
			style = rejectedStyle
		case models.InsightAchievement:
			style = acceptedStyle
		}
		b.WriteString(fmt.Sprintf("  %s %s (%d)\n", style.Render("●"), in.Title, in.Score))
		b.WriteString("    " + descStyle.Render(in.Description) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderGoals renders goals with a progress bar each.
func RenderGoals(goals []models.Goal) string {
	meter := progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Metas") + "\n")
	for _, g := range goals {
		ratio := 0.0
		if g.Target > 0 {
			ratio = float64(g.Current) / float64(g.Target)
		}
		if ratio > 1 {
			ratio = 1
		}
		mark := " "
		if g.Completed {
			mark = acceptedStyle.Render("✓")
		}
		b.WriteString(fmt.Sprintf("%s %-28s %s %d/%d\n", mark, g.Title, meter.ViewAs(ratio), g.Current, g.Target))
	}
	return strings.TrimRight(b.String(), "\n")
}

func row(label, value string) string {
	return fmt.Sprintf("%-22s %s", labelStyle.Render(label), value)
}

func bar(count, total int) string {
	filled := 0
	if total > 0 {
		filled = count * barWidth / total
	}
	return lipgloss.NewStyle().Foreground(secondaryColor).Render(strings.Repeat("█", filled)) +
		descStyle.Render(strings.Repeat("░", barWidth-filled))
}

func renderBuckets(title string, buckets []models.Bucket) string {
	peak := 0
	for _, bk := range buckets {
		if bk.Count > peak {
			peak = bk.Count
		}
	}
	lines := []string{titleStyle.Render(title)}
	for _, bk := range buckets {
		lines = append(lines, fmt.Sprintf("%-14s %s %d", bk.Label, bar(bk.Count, peak), bk.Count))
	}
	return strings.Join(lines, "\n")
}
