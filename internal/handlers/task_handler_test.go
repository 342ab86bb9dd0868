package handlers

import (
	"net/http"
	"testing"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/progress"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/realtime"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")

	w := s.do(t, http.MethodPost, "/api/tracker/tasks", token, map[string]any{
		"title":    "Read chapter 3",
		"subject":  "  Biology ",
		"dueDate":  "2025-03-12",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[models.Task](t, w)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "u-1", created.UserID)
	require.Equal(t, "Biology", created.Subject)
	require.Equal(t, models.PriorityHigh, created.Priority)
	require.False(t, created.Completed)
	require.Nil(t, created.CompletedAt)
	require.Equal(t, "2025-03-12", created.DueDate.UTC().Format(progress.DateLayout))
}

func TestCreateTask_CompletedStampsCompletedAt(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/tracker/tasks", s.token(t, "u-1"), map[string]any{
		"title":     "Flashcards",
		"dueDate":   "2025-03-12T09:00:00Z",
		"completed": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[models.Task](t, w)
	require.True(t, created.Completed)
	require.NotNil(t, created.CompletedAt)
	require.True(t, created.CompletedAt.Equal(testNow))
}

func TestCreateTask_BadInput(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")

	cases := map[string]map[string]any{
		"missing title": {"subject": "Math"},
		"blank title":   {"title": "   "},
		"bad due date":  {"title": "x", "dueDate": "12/03/2025"},
		"bad priority":  {"title": "x", "priority": "urgent"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/tracker/tasks", token, body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestGetTask_OwnerScoped(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/tracker/tasks", s.token(t, "u-1"), map[string]any{"title": "Mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Task](t, w)

	w = s.do(t, http.MethodGet, "/api/tracker/tasks/"+created.ID, s.token(t, "u-1"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/tracker/tasks/"+created.ID, s.token(t, "u-2"), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/tracker/tasks/does-not-exist", s.token(t, "u-1"), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTasks_Filters(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")

	for _, body := range []map[string]any{
		{"title": "a", "subject": "Math", "dueDate": "2025-03-12"},
		{"title": "b", "subject": "Math", "dueDate": "2025-03-12", "completed": true},
		{"title": "c", "subject": "Art", "dueDate": "2025-03-13"},
		{"title": "d"},
	} {
		w := s.do(t, http.MethodPost, "/api/tracker/tasks", token, body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	type listResponse struct {
		Tasks []models.Task `json:"tasks"`
		Total int64         `json:"total"`
	}

	w := s.do(t, http.MethodGet, "/api/tracker/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[listResponse](t, w)
	require.EqualValues(t, 4, all.Total)
	require.Equal(t, "d", all.Tasks[3].Title, "undated tasks sort last")

	w = s.do(t, http.MethodGet, "/api/tracker/tasks?date=2025-03-12", token, nil)
	require.EqualValues(t, 2, decode[listResponse](t, w).Total)

	w = s.do(t, http.MethodGet, "/api/tracker/tasks?date=2025-03-12&completed=false", token, nil)
	require.EqualValues(t, 1, decode[listResponse](t, w).Total)

	w = s.do(t, http.MethodGet, "/api/tracker/tasks?subject=Art", token, nil)
	require.EqualValues(t, 1, decode[listResponse](t, w).Total)

	w = s.do(t, http.MethodGet, "/api/tracker/tasks?page=2&limit=3", token, nil)
	page := decode[listResponse](t, w)
	require.EqualValues(t, 4, page.Total)
	require.Len(t, page.Tasks, 1)

	w = s.do(t, http.MethodGet, "/api/tracker/tasks?completed=maybe", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/tracker/tasks?date=yesterday", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleTask_RoundTrip(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")

	w := s.do(t, http.MethodPost, "/api/tracker/tasks", token, map[string]any{"title": "Essay", "dueDate": "2025-03-10"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Task](t, w)

	w = s.do(t, http.MethodPatch, "/api/tracker/tasks/"+created.ID+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	done := decode[models.Task](t, w)
	require.True(t, done.Completed)
	require.True(t, done.CompletedAt.Equal(testNow))

	w = s.do(t, http.MethodPatch, "/api/tracker/tasks/"+created.ID+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	undone := decode[models.Task](t, w)
	require.False(t, undone.Completed)
	require.Nil(t, undone.CompletedAt)

	w = s.do(t, http.MethodPatch, "/api/tracker/tasks/missing/toggle", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTask(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")

	w := s.do(t, http.MethodPost, "/api/tracker/tasks", token, map[string]any{"title": "Essay", "dueDate": "2025-03-10"})
	created := decode[models.Task](t, w)

	w = s.do(t, http.MethodPut, "/api/tracker/tasks/"+created.ID, token, map[string]any{
		"title":     "Essay draft",
		"completed": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Task](t, w)
	require.Equal(t, "Essay draft", updated.Title)
	require.True(t, updated.Completed)
	require.NotNil(t, updated.DueDate)

	// Setting completed again keeps the original completion time.
	w = s.do(t, http.MethodPut, "/api/tracker/tasks/"+created.ID, token, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, decode[models.Task](t, w).CompletedAt.Equal(*updated.CompletedAt))

	w = s.do(t, http.MethodPut, "/api/tracker/tasks/"+created.ID, token, map[string]any{"dueDate": ""})
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, decode[models.Task](t, w).DueDate)

	w = s.do(t, http.MethodPut, "/api/tracker/tasks/"+created.ID, token, map[string]any{"priority": "someday"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTask(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")

	w := s.do(t, http.MethodPost, "/api/tracker/tasks", token, map[string]any{"title": "Quiz"})
	created := decode[models.Task](t, w)

	w = s.do(t, http.MethodDelete, "/api/tracker/tasks/"+created.ID, s.token(t, "u-2"), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/tracker/tasks/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/tracker/tasks/"+created.ID, token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMutationsInvalidateAndNotify(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")
	client := &recordingClient{}
	s.hub.Register("u-1", client)

	w := s.do(t, http.MethodPost, "/api/tracker/tasks", token, map[string]any{"title": "Essay", "dueDate": "2025-03-10"})
	created := decode[models.Task](t, w)

	// Warm the cache for the whole week.
	w = s.do(t, http.MethodGet, "/api/tracker/weekly", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 7, s.cache.Len())

	w = s.do(t, http.MethodPatch, "/api/tracker/tasks/"+created.ID+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Due day 2025-03-10 and completion day 2025-03-12 are dropped, the rest stay cached.
	require.Equal(t, 5, s.cache.Len())

	invalidated := client.ofType(realtime.EventProgressInvalidated)
	require.NotEmpty(t, invalidated)
	require.Equal(t, []string{"2025-03-10", "2025-03-12"}, invalidated[len(invalidated)-1].Dates)

	require.Len(t, client.ofType(realtime.EventTaskCreated), 1)
	updated := client.ofType(realtime.EventTaskUpdated)
	require.Len(t, updated, 1)
	require.Equal(t, created.ID, updated[0].TaskID)
}
