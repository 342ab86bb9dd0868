package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/progress"

	"github.com/gin-gonic/gin"
)

// dayParam reads an optional YYYY-MM-DD query param, defaulting to now.
func (h *Handler) dayParam(c *gin.Context, name string) (time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return h.engine.Now(), nil
	}
	day, err := progress.ParseDate(v, h.engine.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", progress.ErrInvalidArgument, name)
	}
	return day.Start, nil
}

// daysParam reads the window length; range checks are left to the engine.
func daysParam(c *gin.Context) (int, error) {
	v := c.Query("days")
	if v == "" {
		return progress.DefaultCalendarDays, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: days must be an integer", progress.ErrInvalidArgument)
	}
	return n, nil
}

// Dashboard handles GET /api/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	dash, err := h.engine.Dashboard(c.Request.Context(), uid, h.engine.Now())
	if err != nil {
		h.respondError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Weekly handles GET /api/tracker/weekly
func (h *Handler) Weekly(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	week, err := h.engine.Weekly(c.Request.Context(), uid, h.engine.Now())
	if err != nil {
		h.respondError(c, err, "Failed to fetch weekly progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{"weekStats": week})
}

// Daily handles GET /api/tracker/daily?date=YYYY-MM-DD
func (h *Handler) Daily(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	t, err := h.dayParam(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rollup, err := h.engine.Daily(c.Request.Context(), uid, t)
	if err != nil {
		h.respondError(c, err, "Failed to fetch daily progress")
		return
	}
	c.JSON(http.StatusOK, rollup)
}

// Calendar handles GET /api/tracker/calendar?days=N&end=YYYY-MM-DD
func (h *Handler) Calendar(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	n, err := daysParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := h.dayParam(c, "end")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.engine.Calendar(c.Request.Context(), uid, end, n)
	if err != nil {
		h.respondError(c, err, "Failed to fetch calendar")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Streak handles GET /api/tracker/streak?days=N
func (h *Handler) Streak(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	n, err := daysParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	streak, err := h.engine.Streak(c.Request.Context(), uid, h.engine.Now(), n)
	if err != nil {
		h.respondError(c, err, "Failed to compute streak")
		return
	}
	c.JSON(http.StatusOK, streak)
}
