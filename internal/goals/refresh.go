package goals

import (
	"context"
	"fmt"
	"time"

	"github.com/fentz26/taskpulse/internal/models"
)

// TaskSource lists the current task snapshot.
type TaskSource interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
}

// Refresh loads goals, seeding defaults when none are stored, recomputes
// progress against the task snapshot and saves the result.
func Refresh(ctx context.Context, store Store, tasks TaskSource, now time.Time) ([]models.Goal, error) {
	current, err := LoadOrSeed(ctx, store, now)
	if err != nil {
		return nil, err
	}
	snapshot, err := tasks.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	updated := UpdateGoalProgress(current, snapshot, now)
	if err := store.SaveGoals(ctx, updated); err != nil {
		return nil, fmt.Errorf("save goals: %w", err)
	}
	return updated, nil
}

// LoadOrSeed returns the stored goals, or the defaults when nothing was saved yet.
func LoadOrSeed(ctx context.Context, store Store, now time.Time) ([]models.Goal, error) {
	current, err := store.LoadGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	if current == nil {
		current = DefaultGoals(now)
	}
	return current, nil
}
