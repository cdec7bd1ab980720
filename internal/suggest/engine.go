// Package suggest produces category, due date, priority and productivity suggestions
// for a task being edited.
//
// Local keyword heuristics always run. An optional remote service is consulted
// concurrently; its results are ranked ahead of local ones but it can never delay
// or fail a request beyond its timeout.
package suggest

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fentz26/taskpulse/internal/models"
)

// Request is the task context a suggestion is computed for.
type Request struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Remote is the optional remote suggestion collaborator. Implementations return
// zero or one suggestion and never fail.
type Remote interface {
	Available() bool
	Timeout() time.Duration
	AskCategory(ctx context.Context, req Request) []models.AISuggestion
	AskDueDate(ctx context.Context, req Request) []models.AISuggestion
	AskPriority(ctx context.Context, req Request) []models.AISuggestion
}

// Limits caps how many suggestions of each type are returned.
type Limits struct {
	Category int
	DueDate  int
	Priority int
}

// DefaultLimits returns the default per-type caps.
func DefaultLimits() Limits {
	return Limits{Category: 3, DueDate: 2, Priority: 2}
}

// remoteGrace is added to the remote timeout before the engine stops waiting.
const remoteGrace = 250 * time.Millisecond

// Engine merges local and remote suggestions.
type Engine struct {
	local   *LocalMatcher
	remote  Remote
	limits  Limits
	logger  *zap.Logger
	metrics *Metrics
}

// NewEngine creates an engine. remote may be nil.
func NewEngine(local *LocalMatcher, remote Remote, limits Limits, logger *zap.Logger) *Engine {
	if local == nil {
		local = NewLocalMatcher(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		local:   local,
		remote:  remote,
		limits:  limits,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

type lookup struct {
	typ    models.SuggestionType
	limit  int
	local  func() []models.AISuggestion
	remote func(ctx context.Context) []models.AISuggestion
}

// Suggest returns every suggestion for req sorted by confidence descending.
// Nothing is applied to any task.
func (e *Engine) Suggest(ctx context.Context, req Request) []models.AISuggestion {
	lookups := []lookup{
		{
			typ:    models.SuggestionCategory,
			limit:  e.limits.Category,
			local:  func() []models.AISuggestion { return e.local.SuggestCategory(req.Title, req.Description) },
			remote: func(ctx context.Context) []models.AISuggestion { return e.remote.AskCategory(ctx, req) },
		},
		{
			typ:    models.SuggestionDueDate,
			limit:  e.limits.DueDate,
			local:  func() []models.AISuggestion { return e.local.PredictDueDate(req.Title, req.Description, req.Category) },
			remote: func(ctx context.Context) []models.AISuggestion { return e.remote.AskDueDate(ctx, req) },
		},
		{
			typ:    models.SuggestionPriority,
			limit:  e.limits.Priority,
			local:  func() []models.AISuggestion { return e.local.SuggestPriority(req.Title, req.Description, req.DueDate) },
			remote: func(ctx context.Context) []models.AISuggestion { return e.remote.AskPriority(ctx, req) },
		},
	}

	results := make([][]models.AISuggestion, len(lookups))
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range lookups {
		i, l := i, l
		g.Go(func() error {
			results[i] = e.runLookup(gctx, l)
			return nil
		})
	}
	_ = g.Wait()

	merged := []models.AISuggestion{}
	for _, r := range results {
		merged = append(merged, r...)
	}
	sortByConfidence(merged)

	for _, s := range merged {
		e.metrics.SuggestionsTotal.WithLabelValues(string(s.Type), s.Source).Inc()
	}
	return merged
}

// runLookup issues the local and remote lookups together and merges them with
// remote results first. A remote call still pending after its timeout is abandoned.
func (e *Engine) runLookup(ctx context.Context, l lookup) []models.AISuggestion {
	var remoteCh chan []models.AISuggestion
	var wait time.Duration
	if e.remote != nil && e.remote.Available() {
		wait = e.remote.Timeout() + remoteGrace
		remoteCh = make(chan []models.AISuggestion, 1)
		rctx, cancel := context.WithTimeout(ctx, e.remote.Timeout())
		go func() {
			defer cancel()
			remoteCh <- l.remote(rctx)
		}()
	}

	local := l.local()

	var remote []models.AISuggestion
	if remoteCh != nil {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case remote = <-remoteCh:
		case <-timer.C:
			e.logger.Warn("remote suggestion abandoned", zap.String("type", string(l.typ)), zap.Duration("after", wait))
		case <-ctx.Done():
		}
	}

	combined := make([]models.AISuggestion, 0, len(remote)+len(local))
	combined = append(combined, remote...)
	combined = append(combined, local...)
	return truncate(combined, l.limit)
}
