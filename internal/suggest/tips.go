package suggest

import (
	"github.com/fentz26/taskpulse/internal/models"
)

// ProductivityTips turns recommendation and warning insights into tips.
// Tips carry no action; there is nothing to apply to a task.
func ProductivityTips(insights []models.ProductivityInsight) []models.AISuggestion {
	tips := []models.AISuggestion{}
	for _, in := range insights {
		if in.Type != models.InsightRecommendation && in.Type != models.InsightWarning {
			continue
		}
		tips = append(tips, models.AISuggestion{
			ID:          "tip-" + in.ID,
			Type:        models.SuggestionProductivityTip,
			Title:       in.Title,
			Description: in.Description,
			Confidence:  clamp01(float64(in.Score) / 100),
			Source:      models.SourceLocal,
		})
	}
	sortByConfidence(tips)
	return tips
}
