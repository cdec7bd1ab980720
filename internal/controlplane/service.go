// Package controlplane provides the HTTP API and service layer for taskpulse.
package controlplane

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fentz26/taskpulse/internal/analytics"
	"github.com/fentz26/taskpulse/internal/audit"
	"github.com/fentz26/taskpulse/internal/goals"
	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/store"
	"github.com/fentz26/taskpulse/internal/suggest"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Service provides the control plane business logic.
type Service struct {
	store     *store.Store
	decisions *audit.DecisionWriter
	engine    *suggest.Engine
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new control plane service.
func NewService(s *store.Store, decisions *audit.DecisionWriter, engine *suggest.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     s,
		decisions: decisions,
		engine:    engine,
		logger:    logger,
		now:       time.Now,
	}
}

// --- Task Operations ---

// CreateTask creates a new task.
func (s *Service) CreateTask(ctx context.Context, in store.TaskInput) (*models.Task, error) {
	return s.store.CreateTask(ctx, in)
}

// GetTask retrieves a task by ID.
func (s *Service) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return s.store.GetTask(ctx, id)
}

// ListTasks returns every task.
func (s *Service) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.store.ListTasks(ctx)
}

// UpdateTask replaces the editable fields of a task.
func (s *Service) UpdateTask(ctx context.Context, id string, in store.TaskInput) (*models.Task, error) {
	return s.store.UpdateTask(ctx, id, in)
}

// ToggleTask flips the completion state of a task.
func (s *Service) ToggleTask(ctx context.Context, id string) (*models.Task, error) {
	return s.store.ToggleTask(ctx, id)
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.store.DeleteTask(ctx, id)
}

// --- Analytics ---

// InsightsResponse bundles the rule-based and scored insights.
type InsightsResponse struct {
	Insights     []string                     `json:"insights"`
	Productivity []models.ProductivityInsight `json:"productivity"`
}

// Analytics computes the aggregate over the current task snapshot.
func (s *Service) Analytics(ctx context.Context) (models.AnalyticsData, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return models.AnalyticsData{}, fmt.Errorf("list tasks: %w", err)
	}
	return analytics.Build(tasks, s.now()), nil
}

// Insights returns both insight lists for the current snapshot.
func (s *Service) Insights(ctx context.Context) (*InsightsResponse, error) {
	data, err := s.Analytics(ctx)
	if err != nil {
		return nil, err
	}
	return &InsightsResponse{
		Insights:     analytics.GenerateInsights(data),
		Productivity: analytics.GenerateProductivityInsights(data),
	}, nil
}

// Export returns the analytics aggregate as JSON along with a download filename.
func (s *Service) Export(ctx context.Context) ([]byte, string, error) {
	data, err := s.Analytics(ctx)
	if err != nil {
		return nil, "", err
	}
	out, err := analytics.Export(data)
	if err != nil {
		return nil, "", err
	}
	return out, analytics.ExportFilename(data.LastUpdated), nil
}

// --- Suggestions ---

// Suggest returns ranked suggestions for a task being edited.
func (s *Service) Suggest(ctx context.Context, req suggest.Request) ([]models.AISuggestion, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return s.engine.Suggest(ctx, req), nil
}

// Tips returns productivity tips derived from the scored insights.
func (s *Service) Tips(ctx context.Context) ([]models.AISuggestion, error) {
	data, err := s.Analytics(ctx)
	if err != nil {
		return nil, err
	}
	return suggest.ProductivityTips(analytics.GenerateProductivityInsights(data)), nil
}

// AcceptSuggestion writes the suggestion's action value into the task and records the decision.
func (s *Service) AcceptSuggestion(ctx context.Context, taskID string, sg models.AISuggestion) (*models.Task, error) {
	if sg.Action == nil {
		return nil, ErrNoAction
	}
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	in := inputFromTask(*task)
	if err := s.applyAction(&in, *sg.Action); err != nil {
		s.record(ctx, audit.ActionAccept, taskID, sg, audit.OutcomeFailed, err.Error())
		return nil, err
	}

	updated, err := s.store.UpdateTask(ctx, taskID, in)
	if err != nil {
		s.record(ctx, audit.ActionAccept, taskID, sg, audit.OutcomeFailed, err.Error())
		return nil, err
	}

	s.record(ctx, audit.ActionAccept, taskID, sg, audit.OutcomeApplied, sg.Action.Kind+"="+sg.Action.Value)
	return updated, nil
}

// RejectSuggestion records that the user dismissed a suggestion.
func (s *Service) RejectSuggestion(ctx context.Context, taskID string, sg models.AISuggestion) error {
	details := string(sg.Type)
	if sg.Action != nil {
		details = sg.Action.Kind + "=" + sg.Action.Value
	}
	_, err := s.decisions.Record(ctx, audit.ActionReject, decisionInputs(taskID, sg), audit.OutcomeRejected, taskID, details)
	return err
}

// Decisions lists recent suggestion decisions.
func (s *Service) Decisions(ctx context.Context, taskID string, limit int) ([]models.DecisionRecord, error) {
	return s.store.ListDecisions(ctx, taskID, limit)
}

func (s *Service) record(ctx context.Context, action, taskID string, sg models.AISuggestion, outcome, details string) {
	if _, err := s.decisions.Record(ctx, action, decisionInputs(taskID, sg), outcome, taskID, details); err != nil {
		s.logger.Warn("record decision failed", zap.String("action", action), zap.String("task_id", taskID), zap.Error(err))
	}
}

func decisionInputs(taskID string, sg models.AISuggestion) map[string]interface{} {
	return map[string]interface{}{
		"task_id":    taskID,
		"type":       sg.Type,
		"action":     sg.Action,
		"confidence": sg.Confidence,
		"source":     sg.Source,
	}
}

func inputFromTask(t models.Task) store.TaskInput {
	return store.TaskInput{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Category:    t.Category,
		Tags:        t.Tags,
	}
}

// applyAction writes the action value verbatim into the field named by its kind.
// Due dates are whole days and fall due at the end of that day.
func (s *Service) applyAction(in *store.TaskInput, a models.SuggestionAction) error {
	value := strings.TrimSpace(a.Value)
	if value == "" {
		return fmt.Errorf("%w: empty value", ErrInvalidAction)
	}
	switch a.Kind {
	case models.ActionSetCategory:
		in.Category = &value
	case models.ActionSetPriority:
		p := models.Priority(value)
		if !p.Valid() {
			return fmt.Errorf("%w: priority %q", ErrInvalidAction, value)
		}
		in.Priority = &p
	case models.ActionSetDueDate:
		day, err := time.ParseInLocation("2006-01-02", value, s.now().Location())
		if err != nil {
			return fmt.Errorf("%w: due date %q", ErrInvalidAction, value)
		}
		due := day.AddDate(0, 0, 1).Add(-time.Second)
		in.DueDate = &due
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidAction, a.Kind)
	}
	return nil
}

// --- Goals ---

// Goals returns the goal list with progress computed against the current tasks.
// Nothing is saved.
func (s *Service) Goals(ctx context.Context) ([]models.Goal, error) {
	now := s.now()
	current, err := goals.LoadOrSeed(ctx, s.store, now)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return goals.UpdateGoalProgress(current, tasks, now), nil
}

// ReplaceGoals validates and stores a new goal list, returning it with fresh progress.
func (s *Service) ReplaceGoals(ctx context.Context, list []models.Goal) ([]models.Goal, error) {
	seen := make(map[string]bool, len(list))
	for _, g := range list {
		if err := goals.Validate(g); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: duplicate goal id %q", ErrInvalidInput, g.ID)
		}
		seen[g.ID] = true
	}

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	updated := goals.UpdateGoalProgress(list, tasks, s.now())
	if err := s.store.SaveGoals(ctx, updated); err != nil {
		return nil, fmt.Errorf("save goals: %w", err)
	}
	return updated, nil
}

// RefreshGoals recomputes and saves goal progress.
func (s *Service) RefreshGoals(ctx context.Context) ([]models.Goal, error) {
	return goals.Refresh(ctx, s.store, s.store, s.now())
}
