package controlplane

import "errors"

// Sentinel errors for control plane operations.
var (
	ErrInvalidAction = errors.New("invalid suggestion action")
	ErrNoAction      = errors.New("suggestion has no action to apply")
	ErrInvalidInput  = errors.New("invalid input")
)
