package controlplane

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/fentz26/taskpulse/internal/goals"
	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/store"
	"github.com/fentz26/taskpulse/internal/suggest"
)

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsProvider exposes background worker statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// ServerOptions tunes the HTTP server.
type ServerOptions struct {
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *zap.Logger
}

// Server provides the HTTP API for taskpulse.
type Server struct {
	service *Service
	db      Pinger
	addr    string
	opts    ServerOptions
	logger  *zap.Logger
	server  *http.Server
	sched   StatsProvider
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// NewServer creates a new HTTP server.
func NewServer(service *Service, db Pinger, addr string, opts ServerOptions) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		service: service,
		db:      db,
		addr:    addr,
		opts:    opts,
		logger:  logger,
	}
}

// SetScheduler wires the goal refresher for GET /scheduler.
func (s *Server) SetScheduler(p StatsProvider) {
	s.sched = p
}

// Handler returns the routed API wrapped in the CORS policy.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Task endpoints
	mux.HandleFunc("/tasks", s.handleTasks)
	mux.HandleFunc("/tasks/", s.handleTaskByID)

	// Analytics endpoints
	mux.HandleFunc("/analytics", s.handleAnalytics)
	mux.HandleFunc("/analytics/insights", s.handleInsights)
	mux.HandleFunc("/analytics/export", s.handleExport)

	// Suggestion endpoints
	mux.HandleFunc("/suggestions", s.handleSuggestions)
	mux.HandleFunc("/suggestions/accept", s.handleAccept)
	mux.HandleFunc("/suggestions/reject", s.handleReject)
	mux.HandleFunc("/suggestions/tips", s.handleTips)
	mux.HandleFunc("/decisions", s.handleDecisions)

	// Goal endpoints
	mux.HandleFunc("/goals", s.handleGoals)
	mux.HandleFunc("/goals/refresh", s.handleGoalsRefresh)
	mux.HandleFunc("/scheduler", s.handleScheduler)

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	s.logger.Info("starting taskpulse daemon", zap.String("addr", s.addr), zap.String("version", Version))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := HealthResponse{
		OK:      true,
		DB:      "ok",
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		resp.OK = false
		resp.DB = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

// handleTasks handles POST /tasks and GET /tasks
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createTask(w, r)
	case http.MethodGet:
		s.listTasks(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTaskByID handles /tasks/{id} and /tasks/{id}/toggle
func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/tasks/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "task id required", http.StatusBadRequest)
		return
	}

	taskID := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.getTask(w, r, taskID)
	case action == "" && r.Method == http.MethodPut:
		s.updateTask(w, r, taskID)
	case action == "" && r.Method == http.MethodDelete:
		s.deleteTask(w, r, taskID)
	case action == "toggle" && r.Method == http.MethodPost:
		s.toggleTask(w, r, taskID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// --- Task Handlers ---

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var in store.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	task, err := s.service.CreateTask(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.service.ListTasks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request, taskID string) {
	task, err := s.service.GetTask(r.Context(), taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, taskID string) {
	var in store.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	task, err := s.service.UpdateTask(r.Context(), taskID, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request, taskID string) {
	if err := s.service.DeleteTask(r.Context(), taskID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request, taskID string) {
	task, err := s.service.ToggleTask(r.Context(), taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// --- Analytics Handlers ---

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := s.service.Analytics(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp, err := s.service.Insights(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, filename, err := s.service.Export(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// --- Suggestion Handlers ---

type suggestRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	DueDate     *dueDate `json:"due_date,omitempty"`
}

// dueDate accepts RFC3339 timestamps and plain YYYY-MM-DD days. A plain day
// falls due at the end of that day in local time.
type dueDate time.Time

func (d *dueDate) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		*d = dueDate(t)
		return nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return fmt.Errorf("invalid due_date %q", raw)
	}
	*d = dueDate(day.AddDate(0, 0, 1).Add(-time.Second))
	return nil
}

func (d *dueDate) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	out, err := s.service.Suggest(r.Context(), suggest.Request{
		Title:       req.Title,
		Description: description,
		Category:    req.Category,
		DueDate:     req.DueDate.ptr(),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if out == nil {
		out = []models.AISuggestion{}
	}
	writeJSON(w, http.StatusOK, out)
}

type decisionRequest struct {
	TaskID     string              `json:"task_id"`
	Suggestion models.AISuggestion `json:"suggestion"`
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.TaskID == "" {
		http.Error(w, "task_id required", http.StatusBadRequest)
		return
	}

	task, err := s.service.AcceptSuggestion(r.Context(), req.TaskID, req.Suggestion)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if err := s.service.RejectSuggestion(r.Context(), req.TaskID, req.Suggestion); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tips, err := s.service.Tips(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tips == nil {
		tips = []models.AISuggestion{}
	}
	writeJSON(w, http.StatusOK, tips)
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := s.service.Decisions(r.Context(), r.URL.Query().Get("task_id"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []models.DecisionRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// --- Goal Handlers ---

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.service.Goals(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPut:
		var list []models.Goal
		if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		updated, err := s.service.ReplaceGoals(r.Context(), list)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGoalsRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	list, err := s.service.RefreshGoals(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleScheduler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.sched == nil {
		http.Error(w, "scheduler not running", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.sched.GetStats())
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var goalErr goals.ErrInvalidGoal
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidTask),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidAction),
		errors.Is(err, ErrNoAction),
		errors.As(err, &goalErr):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}
