package analytics

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fentz26/taskpulse/internal/models"
)

// Build computes the full analytics aggregate for a task snapshot.
func Build(tasks []models.Task, now time.Time) models.AnalyticsData {
	return models.AnalyticsData{
		TaskStats:         ComputeTaskStats(tasks, now),
		CategoryStats:     ComputeCategoryStats(tasks),
		PriorityStats:     ComputePriorityStats(tasks),
		ProductivityStats: ComputeProductivityStats(tasks, now),
		TimeStats:         ComputeTimeStats(tasks, now),
		LastUpdated:       now,
	}
}

// Export serializes the aggregate as indented JSON for download.
func Export(data models.AnalyticsData) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analytics: %w", err)
	}
	return out, nil
}

// ExportFilename is the suggested download name for an export taken at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("taskpulse-analytics-%s.json", t.Format("2006-01-02"))
}
