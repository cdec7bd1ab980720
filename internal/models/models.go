// Package models defines the core domain types for taskpulse.
package models

import "time"

// Priority is the user-assigned urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a user task record. Analytics treat it as read-only.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *Priority  `json:"priority"`
	Category    *string    `json:"category"`
	Tags        []string   `json:"tags"`
}

// IsOverdue reports whether the task is pending with a due date before now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// DescriptionText returns the description or "" when unset.
func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// SuggestionType classifies an AISuggestion.
type SuggestionType string

const (
	SuggestionCategory        SuggestionType = "category"
	SuggestionDueDate         SuggestionType = "due_date"
	SuggestionPriority        SuggestionType = "priority"
	SuggestionProductivityTip SuggestionType = "productivity_tip"
)

// Action kinds carried by a suggestion. The value is written verbatim into the task.
const (
	ActionSetCategory = "set_category"
	ActionSetDueDate  = "set_due_date"
	ActionSetPriority = "set_priority"
)

// SuggestionAction is what accepting a suggestion applies to the task.
type SuggestionAction struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Suggestion sources.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// AISuggestion is a ranked, confidence-scored suggestion. It is never persisted.
type AISuggestion struct {
	ID          string            `json:"id"`
	Type        SuggestionType    `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Confidence  float64           `json:"confidence"`
	Action      *SuggestionAction `json:"action"`
	Source      string            `json:"source,omitempty"`
}

// InsightType classifies a ProductivityInsight.
type InsightType string

const (
	InsightPattern        InsightType = "pattern"
	InsightRecommendation InsightType = "recommendation"
	InsightAchievement    InsightType = "achievement"
	InsightWarning        InsightType = "warning"
)

// ProductivityInsight is a scored observation about the task collection.
type ProductivityInsight struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Type        InsightType            `json:"type"`
	Score       int                    `json:"score"`
	Data        map[string]interface{} `json:"data"`
}

// GoalPeriod is the recurrence window of a goal.
type GoalPeriod string

const (
	GoalDaily   GoalPeriod = "daily"
	GoalWeekly  GoalPeriod = "weekly"
	GoalMonthly GoalPeriod = "monthly"
)

// GoalCategory selects how goal progress is measured.
type GoalCategory string

const (
	GoalCategoryTasks        GoalCategory = "tasks"
	GoalCategoryProductivity GoalCategory = "productivity"
	GoalCategoryCustom       GoalCategory = "custom"
)

// Goal is a user-defined recurring target.
type Goal struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Target      int          `json:"target"`
	Current     int          `json:"current"`
	Type        GoalPeriod   `json:"type"`
	Category    GoalCategory `json:"category"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	Completed   bool         `json:"completed"`
}

// DecisionRecord is an audit entry for a user decision on a suggestion.
type DecisionRecord struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	TaskID     string    `json:"task_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
