package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fentz26/taskpulse/internal/models"
)

// TaskInput holds the user-editable fields of a task.
type TaskInput struct {
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	// CreatedAt is used when importing existing tasks; zero means now.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Validate checks the input before it reaches the database.
func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidTask, *in.Priority)
	}
	return nil
}

const taskColumns = `id, title, description, completed, due_date, priority, category, tags, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		task        models.Task
		description sql.NullString
		dueDate     sql.NullTime
		priority    sql.NullString
		category    sql.NullString
		tags        string
	)
	if err := row.Scan(&task.ID, &task.Title, &description, &task.Completed, &dueDate, &priority, &category, &tags, &task.CreatedAt); err != nil {
		return task, err
	}
	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}
	if priority.Valid {
		p := models.Priority(priority.String)
		task.Priority = &p
	}
	if category.Valid {
		task.Category = &category.String
	}
	task.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &task.Tags); err != nil {
			return task, fmt.Errorf("decode tags: %w", err)
		}
	}
	return task, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullPriority(p *models.Priority) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

// --- Task Operations ---

// CreateTask inserts a new pending task.
func (s *Store) CreateTask(ctx context.Context, in TaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tags, err := encodeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created := now
	if !in.CreatedAt.IsZero() {
		created = in.CreatedAt.UTC()
	}

	task := &models.Task{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		CreatedAt:   created,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Category:    in.Category,
		Tags:        in.Tags,
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, completed, due_date, priority, category, tags, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, nullString(task.Description), nullTime(task.DueDate),
		nullPriority(task.Priority), nullString(task.Category), tags, task.CreatedAt, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return &task, nil
}

// ListTasks returns every task, newest first.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTask replaces the editable fields of a task.
func (s *Store) UpdateTask(ctx context.Context, id string, in TaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tags, err := encodeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, due_date = ?, priority = ?, category = ?, tags = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(in.Title), nullString(in.Description), nullTime(in.DueDate),
		nullPriority(in.Priority), nullString(in.Category), tags, s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

// SetCompleted marks a task completed or pending.
func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) (*models.Task, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ?`,
		completed, s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task completion: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

// ToggleTask flips the completion state of a task.
func (s *Store) ToggleTask(ctx context.Context, id string) (*models.Task, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET completed = 1 - completed, updated_at = ? WHERE id = ?`,
		s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}
