package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/auth"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/config"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/middleware"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/progress"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/realtime"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/store"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Wednesday; the sunday-started week is 2025-03-09..2025-03-15.
var testNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

type recordingClient struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (c *recordingClient) Send(message []byte) bool {
	var evt realtime.Event
	if err := json.Unmarshal(message, &evt); err != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return true
}

func (c *recordingClient) Close() {}

func (c *recordingClient) ofType(typ string) []realtime.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []realtime.Event
	for _, e := range c.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type testServer struct {
	router *gin.Engine
	tokens *auth.TokenManager
	hub    *realtime.Hub
	tasks  *store.TaskStore
	cache  *progress.MemoryCache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustDB(t)
	clock := func() time.Time { return testNow }
	hub := realtime.NewHub(nil)
	cache := progress.NewMemoryCache(time.Hour, clock)
	tasks := store.NewTaskStore(db)
	tokens := auth.NewTokenManager(config.JWTConfig{Secret: "test-secret", Issuer: "test", Audience: "test-clients"})

	engine := progress.NewEngine(tasks, progress.Options{
		Location: time.UTC,
		Cache:    cache,
		Notifier: hub,
		Clock:    clock,
	})
	h := New(Deps{
		Tasks:  tasks,
		Users:  store.NewUserStore(db),
		Engine: engine,
		Hub:    hub,
		Tokens: tokens,
	})

	r := gin.New()
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	api := r.Group("/api", middleware.JWTAuth(tokens))
	api.GET("/me", h.Me)
	api.GET("/dashboard", h.Dashboard)
	api.GET("/ws", h.WebSocket)
	api.GET("/tracker/tasks", h.ListTasks)
	api.GET("/tracker/tasks/:id", h.GetTask)
	api.POST("/tracker/tasks", h.CreateTask)
	api.PUT("/tracker/tasks/:id", h.UpdateTask)
	api.PATCH("/tracker/tasks/:id/toggle", h.ToggleTask)
	api.DELETE("/tracker/tasks/:id", h.DeleteTask)
	api.GET("/tracker/weekly", h.Weekly)
	api.GET("/tracker/daily", h.Daily)
	api.GET("/tracker/calendar", h.Calendar)
	api.GET("/tracker/streak", h.Streak)

	return &testServer{router: r, tokens: tokens, hub: hub, tasks: tasks, cache: cache}
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := s.tokens.Generate(userID, userID)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
