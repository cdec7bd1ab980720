package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fentz26/taskpulse/internal/models"
)

const (
	defaultRemoteBaseURL = "https://api.openai.com/v1"
	defaultRemoteModel   = "gpt-4o-mini"
	defaultRemoteTimeout = 5 * time.Second
	maxRemoteBody        = 1 << 20
)

var (
	errRemoteStatus  = errors.New("remote returned non-2xx status")
	errRemoteInvalid = errors.New("remote returned an invalid suggestion")
)

// RemoteConfig configures the remote suggestion service.
type RemoteConfig struct {
	Enabled           bool
	BaseURL           string
	Model             string
	APIKey            string `json:"-"`
	Timeout           time.Duration
	RequestsPerMinute int
}

// Available reports whether the remote service may be called at all.
func (c RemoteConfig) Available() bool {
	return c.Enabled && strings.TrimSpace(c.APIKey) != ""
}

// RemoteAdapter asks an OpenAI-compatible chat completions endpoint for one
// suggestion per type. Every failure collapses into an empty result; errors are
// logged and counted, never returned.
type RemoteAdapter struct {
	cfg        RemoteConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	metrics    *Metrics
	now        func() time.Time
}

// NewRemoteAdapter creates an adapter. A nil logger is replaced by a no-op logger.
func NewRemoteAdapter(cfg RemoteConfig, logger *zap.Logger, now func() time.Time) *RemoteAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultRemoteBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultRemoteModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRemoteTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60)
		burst = cfg.RequestsPerMinute
	}

	return &RemoteAdapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
		metrics:    NewMetrics(),
		now:        now,
	}
}

// Available reports whether the adapter is configured to make calls.
func (a *RemoteAdapter) Available() bool {
	return a != nil && a.cfg.Available()
}

// Timeout is the per-request bound applied to every call.
func (a *RemoteAdapter) Timeout() time.Duration {
	return a.cfg.Timeout
}

// AskCategory requests a category suggestion.
func (a *RemoteAdapter) AskCategory(ctx context.Context, req Request) []models.AISuggestion {
	return a.ask(ctx, models.SuggestionCategory, req)
}

// AskDueDate requests a due date suggestion.
func (a *RemoteAdapter) AskDueDate(ctx context.Context, req Request) []models.AISuggestion {
	return a.ask(ctx, models.SuggestionDueDate, req)
}

// AskPriority requests a priority suggestion.
func (a *RemoteAdapter) AskPriority(ctx context.Context, req Request) []models.AISuggestion {
	return a.ask(ctx, models.SuggestionPriority, req)
}

// remoteAnswer is the JSON object the model is instructed to reply with.
type remoteAnswer struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (a *RemoteAdapter) ask(ctx context.Context, typ models.SuggestionType, req Request) []models.AISuggestion {
	if !a.Available() {
		return nil
	}
	if !a.limiter.Allow() {
		a.metrics.RemoteRequestsTotal.WithLabelValues(string(typ), "skipped").Inc()
		a.logger.Debug("remote suggestion rate limited", zap.String("type", string(typ)))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	start := time.Now()
	answer, err := a.complete(ctx, typ, req)
	a.metrics.RemoteDuration.WithLabelValues(string(typ)).Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			outcome = "timeout"
		case errors.Is(err, errRemoteInvalid):
			outcome = "invalid"
		}
		a.metrics.RemoteRequestsTotal.WithLabelValues(string(typ), outcome).Inc()
		a.logger.Warn("remote suggestion failed",
			zap.String("type", string(typ)),
			zap.String("outcome", outcome),
			zap.Error(err))
		return nil
	}

	s, err := a.toSuggestion(typ, answer)
	if err != nil {
		a.metrics.RemoteRequestsTotal.WithLabelValues(string(typ), "invalid").Inc()
		a.logger.Warn("remote suggestion rejected",
			zap.String("type", string(typ)),
			zap.String("value", answer.Value),
			zap.Error(err))
		return nil
	}
	a.metrics.RemoteRequestsTotal.WithLabelValues(string(typ), "ok").Inc()
	return []models.AISuggestion{s}
}

func (a *RemoteAdapter) complete(ctx context.Context, typ models.SuggestionType, req Request) (remoteAnswer, error) {
	body, err := json.Marshal(chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(typ)},
			{Role: "user", Content: BuildUserPrompt(req, a.now())},
		},
		Temperature:    0.2,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return remoteAnswer{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(a.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return remoteAnswer{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return remoteAnswer{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return remoteAnswer{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteAnswer{}, fmt.Errorf("%w: %d", errRemoteStatus, resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return remoteAnswer{}, fmt.Errorf("%w: decode response: %v", errRemoteInvalid, err)
	}
	if len(chat.Choices) == 0 {
		return remoteAnswer{}, fmt.Errorf("%w: no choices", errRemoteInvalid)
	}

	content := strings.TrimSpace(chat.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var answer remoteAnswer
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &answer); err != nil {
		return remoteAnswer{}, fmt.Errorf("%w: decode answer: %v", errRemoteInvalid, err)
	}
	return answer, nil
}

// toSuggestion validates the answer; the remote side is untrusted.
func (a *RemoteAdapter) toSuggestion(typ models.SuggestionType, ans remoteAnswer) (models.AISuggestion, error) {
	value := strings.TrimSpace(ans.Value)
	if value == "" {
		return models.AISuggestion{}, fmt.Errorf("%w: empty value", errRemoteInvalid)
	}

	var kind, title string
	switch typ {
	case models.SuggestionCategory:
		value = strings.ToLower(value)
		kind, title = models.ActionSetCategory, fmt.Sprintf("Categoría: %s", value)
	case models.SuggestionDueDate:
		due, err := time.Parse(dueDateLayout, value)
		if err != nil {
			return models.AISuggestion{}, fmt.Errorf("%w: due date %q", errRemoteInvalid, value)
		}
		value = due.Format(dueDateLayout)
		kind, title = models.ActionSetDueDate, fmt.Sprintf("Fecha límite: %s", value)
	case models.SuggestionPriority:
		p := models.Priority(strings.ToLower(value))
		if !p.Valid() {
			return models.AISuggestion{}, fmt.Errorf("%w: priority %q", errRemoteInvalid, value)
		}
		value = string(p)
		kind, title = models.ActionSetPriority, fmt.Sprintf("Prioridad %s", priorityLabels[p])
	default:
		return models.AISuggestion{}, fmt.Errorf("%w: type %q", errRemoteInvalid, typ)
	}

	return models.AISuggestion{
		ID:          uuid.New().String(),
		Type:        typ,
		Title:       title,
		Description: strings.TrimSpace(ans.Reasoning),
		Confidence:  round2(clamp01(ans.Confidence)),
		Action:      &models.SuggestionAction{Kind: kind, Value: value},
		Source:      models.SourceRemote,
	}, nil
}
