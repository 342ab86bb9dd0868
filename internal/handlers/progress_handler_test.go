package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/progress"
	"github.com/stretchr/testify/require"
)

func TestDashboard_Empty(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/dashboard", s.token(t, "u-1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"completedToday":[]`)

	dash := decode[progress.Dashboard](t, w)
	require.Zero(t, dash.CompletedCount)
	require.Zero(t, dash.TotalToday)
	require.Len(t, dash.WeekStats, 7)
	require.Equal(t, "No tasks completed today. Ready to start your learning journey!", dash.Summary)
}

func TestDashboard_ReflectsCompletion(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")

	var ids []string
	for _, subject := range []string{"Math", "Physics", "Math"} {
		w := s.do(t, http.MethodPost, "/api/tracker/tasks", token, map[string]any{
			"title":   subject + " homework",
			"subject": subject,
			"dueDate": "2025-03-12",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		ids = append(ids, decode[models.Task](t, w).ID)
	}

	w := s.do(t, http.MethodGet, "/api/dashboard", token, nil)
	dash := decode[progress.Dashboard](t, w)
	require.Equal(t, 3, dash.TotalToday)
	require.Zero(t, dash.CompletedCount)

	for _, id := range ids {
		w = s.do(t, http.MethodPatch, "/api/tracker/tasks/"+id+"/toggle", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash = decode[progress.Dashboard](t, w)
	require.Equal(t, 3, dash.CompletedCount)
	require.Equal(t, 3, dash.TotalToday)
	require.Len(t, dash.CompletedToday, 3)
	require.Equal(t, "Great progress today! Completed 3 tasks in Math, Physics. Keep up the momentum!", dash.Summary)

	wed := dash.WeekStats[3]
	require.Equal(t, "2025-03-12", wed.Date)
	require.Equal(t, "Wed", wed.Day)
	require.Equal(t, 100, wed.Percentage)
}

func TestWeeklyAndDaily(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")

	for _, body := range []map[string]any{
		{"title": "a", "dueDate": "2025-03-09", "completed": true},
		{"title": "b", "dueDate": "2025-03-09"},
		{"title": "c", "dueDate": "2025-03-09"},
	} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/tracker/tasks", token, body).Code)
	}

	w := s.do(t, http.MethodGet, "/api/tracker/weekly", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	week := decode[struct {
		WeekStats []progress.WeekDay `json:"weekStats"`
	}](t, w).WeekStats
	require.Len(t, week, 7)
	require.Equal(t, "2025-03-09", week[0].Date)
	require.Equal(t, "Sun", week[0].Day)
	require.Equal(t, 33, week[0].Percentage)

	w = s.do(t, http.MethodGet, "/api/tracker/daily?date=2025-03-09", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, progress.DailyRollup{Date: "2025-03-09", CompletedCount: 1, TotalCount: 3, Percentage: 33}, decode[progress.DailyRollup](t, w))

	w = s.do(t, http.MethodGet, "/api/tracker/daily", token, nil)
	require.Equal(t, "2025-03-12", decode[progress.DailyRollup](t, w).Date)

	w = s.do(t, http.MethodGet, "/api/tracker/daily?date=2025-13-01", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendar(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/tracker/tasks", token,
		map[string]any{"title": "a", "dueDate": "2025-03-11", "completed": true}).Code)

	w := s.do(t, http.MethodGet, "/api/tracker/calendar?days=7", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Body.String(), "["), w.Body.String())
	days := decode[[]progress.CalendarEntry](t, w)
	require.Len(t, days, 7)
	require.Equal(t, "2025-03-06", days[0].Date)
	require.Equal(t, "2025-03-12", days[6].Date)
	require.Equal(t, progress.CalendarEntry{Date: "2025-03-11", Count: 1, Level: 4}, days[5])

	w = s.do(t, http.MethodGet, "/api/tracker/calendar?days=3&end=2025-03-11", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	days = decode[[]progress.CalendarEntry](t, w)
	require.Len(t, days, 3)
	require.Equal(t, "2025-03-11", days[2].Date)

	w = s.do(t, http.MethodGet, "/api/tracker/calendar", token, nil)
	require.Len(t, decode[[]progress.CalendarEntry](t, w), progress.DefaultCalendarDays)

	for _, q := range []string{"days=0", "days=-5", "days=abc", "days=100000", "end=tomorrow"} {
		w = s.do(t, http.MethodGet, "/api/tracker/calendar?"+q, token, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestStreak(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u-1")

	for _, due := range []string{"2025-03-10", "2025-03-11"} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/tracker/tasks", token,
			map[string]any{"title": "t", "dueDate": due, "completed": true}).Code)
	}

	w := s.do(t, http.MethodGet, "/api/tracker/streak?days=30", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, progress.Streak{Current: 2, Longest: 2, Window: 30}, decode[progress.Streak](t, w))

	w = s.do(t, http.MethodGet, "/api/tracker/streak?days=0", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
