package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fentz26/taskpulse/internal/models"
)

const goalsKey = "goals"

// --- Key-Value Operations ---

// GetValue returns the raw value stored under key and whether it exists.
func (s *Store) GetValue(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query kv %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// PutValue stores value under key, replacing any previous value.
func (s *Store) PutValue(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), s.now(),
	)
	if err != nil {
		return fmt.Errorf("upsert kv %s: %w", key, err)
	}
	return nil
}

// LoadGoals returns the saved goal list, or nil when nothing was saved yet.
func (s *Store) LoadGoals(ctx context.Context) ([]models.Goal, error) {
	raw, ok, err := s.GetValue(ctx, goalsKey)
	if err != nil || !ok {
		return nil, err
	}
	goals := []models.Goal{}
	if err := json.Unmarshal(raw, &goals); err != nil {
		return nil, fmt.Errorf("decode goals: %w", err)
	}
	return goals, nil
}

// SaveGoals stores the goal list as JSON.
func (s *Store) SaveGoals(ctx context.Context, goals []models.Goal) error {
	if goals == nil {
		goals = []models.Goal{}
	}
	raw, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("encode goals: %w", err)
	}
	return s.PutValue(ctx, goalsKey, raw)
}
