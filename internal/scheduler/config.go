// Package scheduler runs periodic background work for the daemon.
package scheduler

import "time"

// Config defines the scheduler configuration.
type Config struct {
	// Interval is how often goal progress is recomputed.
	Interval time.Duration `yaml:"interval"`
	// RunOnStart refreshes once immediately instead of waiting a full interval.
	RunOnStart bool `yaml:"run_on_start"`
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		Interval:   5 * time.Minute,
		RunOnStart: true,
	}
}
