package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/auth"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/middleware"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/progress"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/realtime"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/store"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP handlers need.
type Deps struct {
	Tasks  *store.TaskStore
	Users  *store.UserStore
	Engine *progress.Engine
	Hub    *realtime.Hub
	Tokens *auth.TokenManager
	Log    *slog.Logger
}

// Handler serves the tracker API.
type Handler struct {
	tasks  *store.TaskStore
	users  *store.UserStore
	engine *progress.Engine
	hub    *realtime.Hub
	tokens *auth.TokenManager
	log    *slog.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		tasks:  d.Tasks,
		users:  d.Users,
		engine: d.Engine,
		hub:    d.Hub,
		tokens: d.Tokens,
		log:    log,
	}
}

// userID returns the authenticated user, writing a 401 when there is none.
func userID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.UserIDKey)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return "", false
	}
	return id, true
}

// respondError maps domain errors to status codes; anything unknown is a generic 500.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, progress.ErrInvalidArgument), errors.Is(err, store.ErrInvalidTask):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, store.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
	default:
		_ = c.Error(err)
		h.log.Error(fallback, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
