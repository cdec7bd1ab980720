package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fentz26/taskpulse/internal/models"
)

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}))
}

func newTestAdapter(url string, timeout time.Duration) (*RemoteAdapter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := RemoteConfig{Enabled: true, BaseURL: url, APIKey: "test-key", Timeout: timeout}
	return NewRemoteAdapter(cfg, zap.New(core), clock), logs
}

func TestRemoteAdapter_Success(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		chatReply(t, w, `{"value":"Trabajo","confidence":1.4,"reasoning":"Menciona al jefe"}`)
	}))
	defer srv.Close()

	a, _ := newTestAdapter(srv.URL, time.Second)
	got := a.AskCategory(context.Background(), Request{Title: "Reunión con el jefe"})

	require.Len(t, got, 1)
	assert.Equal(t, "trabajo", got[0].Action.Value)
	assert.Equal(t, 1.0, got[0].Confidence, "confidence is clamped")
	assert.Equal(t, models.SourceRemote, got[0].Source)
	assert.Equal(t, "Menciona al jefe", got[0].Description)

	require.Len(t, gotReq.Messages, 2)
	assert.Contains(t, gotReq.Messages[1].Content, "title: Reunión con el jefe\n")
	assert.Contains(t, gotReq.Messages[1].Content, "today: 2026-10-14\n")
}

func TestRemoteAdapter_DueDateAndFencedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "```json\n{\"value\":\"2026-10-20\",\"confidence\":0.7,\"reasoning\":\"x\"}\n```")
	}))
	defer srv.Close()

	a, _ := newTestAdapter(srv.URL, time.Second)
	got := a.AskDueDate(context.Background(), Request{Title: "Entregar informe"})
	require.Len(t, got, 1)
	assert.Equal(t, "2026-10-20", got[0].Action.Value)
	assert.Equal(t, models.ActionSetDueDate, got[0].Action.Kind)
}

func TestRemoteAdapter_FailuresYieldEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "unknown priority",
			handler: func(w http.ResponseWriter, r *http.Request) {
				chatReply(t, w, `{"value":"urgentísima","confidence":0.9,"reasoning":""}`)
			},
		},
		{
			name: "empty value",
			handler: func(w http.ResponseWriter, r *http.Request) {
				chatReply(t, w, `{"value":"","confidence":0.9}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			a, logs := newTestAdapter(srv.URL, time.Second)
			got := a.AskPriority(context.Background(), Request{Title: "Algo"})
			assert.Empty(t, got)

			warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
			require.Len(t, warns, 1)
			assert.Equal(t, "priority", warns[0].ContextMap()["type"])
		})
	}
}

func TestRemoteAdapter_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	a, logs := newTestAdapter(srv.URL, 50*time.Millisecond)
	start := time.Now()
	got := a.AskCategory(context.Background(), Request{Title: "Algo"})

	assert.Empty(t, got)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, logs.FilterMessage("remote suggestion failed").Len())
}

func TestRemoteAdapter_Unavailable(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	a := NewRemoteAdapter(RemoteConfig{Enabled: true, BaseURL: srv.URL}, nil, clock)
	assert.False(t, a.Available())
	assert.Empty(t, a.AskCategory(context.Background(), Request{Title: "Algo"}))

	a = NewRemoteAdapter(RemoteConfig{Enabled: false, BaseURL: srv.URL, APIKey: "k"}, nil, clock)
	assert.Empty(t, a.AskPriority(context.Background(), Request{Title: "Algo"}))

	var nilAdapter *RemoteAdapter
	assert.False(t, nilAdapter.Available())
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestRemoteAdapter_RateLimited(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		chatReply(t, w, `{"value":"low","confidence":0.6}`)
	}))
	defer srv.Close()

	cfg := RemoteConfig{Enabled: true, BaseURL: srv.URL, APIKey: "k", Timeout: time.Second, RequestsPerMinute: 1}
	a := NewRemoteAdapter(cfg, nil, clock)

	require.Len(t, a.AskPriority(context.Background(), Request{Title: "Algo"}), 1)
	assert.Empty(t, a.AskPriority(context.Background(), Request{Title: "Algo"}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestBuildUserPrompt(t *testing.T) {
	due := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	got := BuildUserPrompt(Request{
		Title:       "Pagar factura",
		Description: "luz",
		Category:    strPtr("finanzas"),
		DueDate:     &due,
	}, fixedNow)
	assert.Equal(t, "today: 2026-10-14\ntitle: Pagar factura\ndescription: luz\ncategory: finanzas\ndue_date: 2026-10-20\n", got)
}
