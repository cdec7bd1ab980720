package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fentz26/taskpulse/internal/models"
)

// --- Decision Operations ---

// WriteDecision records a user decision on a suggestion.
func (s *Store) WriteDecision(ctx context.Context, action, inputsHash, outcome, taskID, details string) (*models.DecisionRecord, error) {
	rec := &models.DecisionRecord{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		Outcome:    outcome,
		TaskID:     taskID,
		Details:    details,
		Timestamp:  s.now(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, action, inputs_hash, outcome, task_id, details, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Action, rec.InputsHash, rec.Outcome, rec.TaskID, rec.Details, rec.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert decision: %w", err)
	}
	return rec, nil
}

// ListDecisions returns the most recent decisions, optionally for one task.
func (s *Store) ListDecisions(ctx context.Context, taskID string, limit int) ([]models.DecisionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, action, inputs_hash, outcome, task_id, details, timestamp FROM decisions`
	var args []interface{}
	if taskID != "" {
		query += ` WHERE task_id = ?`
		args = append(args, taskID)
	}
	query += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var records []models.DecisionRecord
	for rows.Next() {
		var rec models.DecisionRecord
		var task, details sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Action, &rec.InputsHash, &rec.Outcome, &task, &details, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		rec.TaskID = task.String
		rec.Details = details.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
