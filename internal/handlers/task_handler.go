package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/progress"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/realtime"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/store"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	DueDate     string              `json:"dueDate"`
	Priority    models.TaskPriority `json:"priority"`
	Completed   bool                `json:"completed"`
}

// UpdateTaskRequest represents the request payload for updating a task.
// An empty dueDate string clears the due date.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Subject     *string              `json:"subject"`
	Description *string              `json:"description"`
	DueDate     *string              `json:"dueDate"`
	Priority    *models.TaskPriority `json:"priority"`
	Completed   *bool                `json:"completed"`
}

// parseDueDate accepts a bare date (start of that day in loc) or a full RFC3339 timestamp.
func parseDueDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	day, err := progress.ParseDate(s, loc)
	if err != nil {
		return nil, err
	}
	return &day.Start, nil
}

// ListTasks handles GET /api/tracker/tasks
// Optional query params: date (YYYY-MM-DD due day), completed (bool), subject, page, limit.
func (h *Handler) ListTasks(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var f store.TaskFilter
	if date := c.Query("date"); date != "" {
		day, err := progress.ParseDate(date, h.engine.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		f.DueFrom, f.DueTo = &day.Start, &day.End
	}
	if v := c.Query("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "completed must be true or false"})
			return
		}
		f.Completed = &b
	}
	f.Subject = c.Query("subject")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	f.Limit, f.Offset = limit, (page-1)*limit

	tasks, total, err := h.tasks.List(c.Request.Context(), uid, f)
	if err != nil {
		h.respondError(c, err, "Failed to fetch tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetTask handles GET /api/tracker/tasks/:id
func (h *Handler) GetTask(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /api/tracker/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	due, err := parseDueDate(req.DueDate, h.engine.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.Task{
		UserID:      uid,
		Title:       req.Title,
		Subject:     strings.TrimSpace(req.Subject),
		Description: req.Description,
		DueDate:     due,
		Priority:    req.Priority,
	}
	task.SetCompleted(req.Completed, h.engine.Now())

	if err := h.tasks.Create(c.Request.Context(), &task); err != nil {
		h.respondError(c, err, "Failed to create task")
		return
	}

	h.afterMutation(c.Request.Context(), realtime.EventTaskCreated, nil, &task)
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tracker/tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	before, err := h.tasks.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch task")
		return
	}

	task := before
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Subject != nil {
		task.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate, h.engine.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		task.DueDate = due
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Completed != nil {
		task.SetCompleted(*req.Completed, h.engine.Now())
	}

	if err := h.tasks.Update(c.Request.Context(), &task); err != nil {
		h.respondError(c, err, "Failed to update task")
		return
	}

	h.afterMutation(c.Request.Context(), realtime.EventTaskUpdated, &before, &task)
	c.JSON(http.StatusOK, task)
}

// ToggleTask handles PATCH /api/tracker/tasks/:id/toggle
// Flips completion, stamping or clearing completedAt.
func (h *Handler) ToggleTask(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	before, err := h.tasks.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch task")
		return
	}

	task := before
	task.SetCompleted(!before.Completed, h.engine.Now())
	if err := h.tasks.Update(c.Request.Context(), &task); err != nil {
		h.respondError(c, err, "Failed to update task")
		return
	}

	h.afterMutation(c.Request.Context(), realtime.EventTaskUpdated, &before, &task)
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tracker/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	deleted, err := h.tasks.Delete(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to delete task")
		return
	}

	h.afterMutation(c.Request.Context(), realtime.EventTaskDeleted, &deleted, nil)
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      deleted.ID,
	})
}

// afterMutation invalidates the rollups of every day the change touched and tells the user's clients.
// The task write has already succeeded, so failures here are logged rather than returned.
func (h *Handler) afterMutation(ctx context.Context, eventType string, before, after *models.Task) {
	subject := after
	if subject == nil {
		subject = before
	}

	dates := progress.AffectedDays(before, after, h.engine.Location())
	if err := h.engine.Invalidate(ctx, subject.UserID, dates); err != nil {
		h.log.Error("invalidate rollups", "user_id", subject.UserID, "task_id", subject.ID, "dates", dates, "error", err)
	}
	h.hub.Publish(realtime.Event{Type: eventType, UserID: subject.UserID, TaskID: subject.ID})
}
