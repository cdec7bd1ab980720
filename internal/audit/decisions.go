// Package audit records user decisions on suggestions.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/taskpulse/internal/models"
)

// Decision actions.
const (
	ActionAccept = "suggestion.accept"
	ActionReject = "suggestion.reject"
)

// Decision outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Sink persists decision records.
type Sink interface {
	WriteDecision(ctx context.Context, action, inputsHash, outcome, taskID, details string) (*models.DecisionRecord, error)
}

// DecisionWriter writes decision records for audit trails.
type DecisionWriter struct {
	sink Sink
}

// NewDecisionWriter creates a new decision writer.
func NewDecisionWriter(sink Sink) *DecisionWriter {
	return &DecisionWriter{sink: sink}
}

// Record writes a decision. inputs are hashed, not stored.
func (w *DecisionWriter) Record(ctx context.Context, action string, inputs interface{}, outcome, taskID, details string) (*models.DecisionRecord, error) {
	return w.sink.WriteDecision(ctx, action, HashInputs(inputs), outcome, taskID, details)
}

// HashInputs creates a SHA256 hash of the JSON encoding of inputs.
func HashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
