package goals

import (
	"time"

	"github.com/fentz26/taskpulse/internal/models"
)

// DefaultGoals is the seed list used when nothing has been stored yet.
func DefaultGoals(now time.Time) []models.Goal {
	seed := []models.Goal{
		{
			ID:          "daily-tasks",
			Title:       "Tareas diarias",
			Description: "Completar 3 tareas cada día",
			Target:      3,
			Type:        models.GoalDaily,
			Category:    models.GoalCategoryTasks,
		},
		{
			ID:          "weekly-tasks",
			Title:       "Meta semanal",
			Description: "Completar 15 tareas esta semana",
			Target:      15,
			Type:        models.GoalWeekly,
			Category:    models.GoalCategoryTasks,
		},
		{
			ID:          "monthly-productivity",
			Title:       "Productividad mensual",
			Description: "Mantener una tasa de finalización del 80% este mes",
			Target:      80,
			Type:        models.GoalMonthly,
			Category:    models.GoalCategoryProductivity,
		},
	}
	for i := range seed {
		w := WindowFor(seed[i].Type, now)
		seed[i].StartDate, seed[i].EndDate = w.Start, w.End
	}
	return seed
}

// Validate checks a user-supplied goal.
func Validate(g models.Goal) error {
	if g.ID == "" {
		return ErrInvalidGoal{Field: "id"}
	}
	if g.Title == "" {
		return ErrInvalidGoal{Field: "title"}
	}
	if g.Target <= 0 {
		return ErrInvalidGoal{Field: "target"}
	}
	switch g.Type {
	case models.GoalDaily, models.GoalWeekly, models.GoalMonthly:
	default:
		return ErrInvalidGoal{Field: "type"}
	}
	switch g.Category {
	case models.GoalCategoryTasks, models.GoalCategoryCustom:
	case models.GoalCategoryProductivity:
		if g.Target > 100 {
			return ErrInvalidGoal{Field: "target"}
		}
	default:
		return ErrInvalidGoal{Field: "category"}
	}
	return nil
}

// ErrInvalidGoal reports the first invalid field of a goal.
type ErrInvalidGoal struct {
	Field string
}

func (e ErrInvalidGoal) Error() string {
	return "invalid goal " + e.Field
}
