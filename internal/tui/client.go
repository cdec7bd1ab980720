package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fentz26/taskpulse/internal/controlplane"
	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/suggest"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// Client wraps HTTP calls to the taskpulse API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client with timeout
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// ListTasks fetches tasks from the API
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches a single task
func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+id, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Suggest requests suggestions for a task context
func (c *Client) Suggest(ctx context.Context, req suggest.Request) ([]models.AISuggestion, error) {
	var out []models.AISuggestion
	if err := c.do(ctx, http.MethodPost, "/suggestions", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Accept applies a suggestion to a task
func (c *Client) Accept(ctx context.Context, taskID string, s models.AISuggestion) (*models.Task, error) {
	var task models.Task
	body := map[string]interface{}{"task_id": taskID, "suggestion": s}
	if err := c.do(ctx, http.MethodPost, "/suggestions/accept", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Reject records a dismissed suggestion
func (c *Client) Reject(ctx context.Context, taskID string, s models.AISuggestion) error {
	body := map[string]interface{}{"task_id": taskID, "suggestion": s}
	return c.do(ctx, http.MethodPost, "/suggestions/reject", body, nil)
}

// Analytics fetches the analytics aggregate
func (c *Client) Analytics(ctx context.Context) (*models.AnalyticsData, error) {
	var data models.AnalyticsData
	if err := c.do(ctx, http.MethodGet, "/analytics", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Insights fetches both insight lists
func (c *Client) Insights(ctx context.Context) (*controlplane.InsightsResponse, error) {
	var resp controlplane.InsightsResponse
	if err := c.do(ctx, http.MethodGet, "/analytics/insights", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Goals fetches goals with current progress
func (c *Client) Goals(ctx context.Context) ([]models.Goal, error) {
	var list []models.Goal
	if err := c.do(ctx, http.MethodGet, "/goals", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CheckHealth checks if the daemon is healthy
func (c *Client) CheckHealth(ctx context.Context) (bool, error) {
	var health controlplane.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return false, err
	}
	return health.OK, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
