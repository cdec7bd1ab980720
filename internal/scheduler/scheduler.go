package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fentz26/taskpulse/internal/goals"
)

// Scheduler periodically recomputes goal progress and saves it.
type Scheduler struct {
	goals  goals.Store
	tasks  goals.TaskSource
	config *Config
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	runs      int
	failures  int
	lastRun   time.Time
	lastError string

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new scheduler.
func New(gs goals.Store, ts goals.TaskSource, cfg *Config, logger *zap.Logger) *Scheduler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		goals:  gs,
		tasks:  ts,
		config: cfg,
		logger: logger,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins the refresh loop.
func (sch *Scheduler) Start() {
	sch.wg.Add(1)
	go sch.loop()
	sch.logger.Info("scheduler started", zap.Duration("interval", sch.config.Interval))
}

// Stop gracefully stops the scheduler.
func (sch *Scheduler) Stop() {
	sch.cancel()
	sch.wg.Wait()
	sch.logger.Info("scheduler stopped")
}

func (sch *Scheduler) loop() {
	defer sch.wg.Done()

	if sch.config.RunOnStart {
		sch.RunOnce(sch.ctx)
	}

	ticker := time.NewTicker(sch.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-sch.ctx.Done():
			return
		case <-ticker.C:
			sch.RunOnce(sch.ctx)
		}
	}
}

// RunOnce performs a single refresh and records its outcome.
func (sch *Scheduler) RunOnce(ctx context.Context) {
	now := sch.now()
	updated, err := goals.Refresh(ctx, sch.goals, sch.tasks, now)

	sch.mu.Lock()
	sch.runs++
	sch.lastRun = now
	if err != nil {
		sch.failures++
		sch.lastError = err.Error()
	} else {
		sch.lastError = ""
	}
	sch.mu.Unlock()

	if err != nil {
		sch.logger.Warn("goal refresh failed", zap.Error(err))
		return
	}

	completed := 0
	for _, g := range updated {
		if g.Completed {
			completed++
		}
	}
	sch.logger.Debug("goals refreshed", zap.Int("goals", len(updated)), zap.Int("completed", completed))
}

// GetStats returns current scheduler statistics.
func (sch *Scheduler) GetStats() map[string]interface{} {
	sch.mu.Lock()
	defer sch.mu.Unlock()

	stats := map[string]interface{}{
		"runs":       sch.runs,
		"failures":   sch.failures,
		"interval":   sch.config.Interval.String(),
		"last_error": sch.lastError,
	}
	if !sch.lastRun.IsZero() {
		stats["last_run"] = sch.lastRun
	}
	return stats
}
