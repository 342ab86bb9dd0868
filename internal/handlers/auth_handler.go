package handlers

import (
	"errors"
	"net/http"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/auth"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/store"

	"github.com/gin-gonic/gin"
)

// CredentialsRequest is the register/login payload
type CredentialsRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Register creates an account and returns a token for it.
// POST /api/register
func (h *Handler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Username and password are required."})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Username, hash)
	if err != nil {
		h.respondError(c, err, "Failed to create user")
		return
	}

	h.issueToken(c, http.StatusCreated, user.ID, user.Username, "Registration successful")
}

// Login checks credentials and returns a token.
// POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Username and password are required."})
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if errors.Is(err, store.ErrUserNotFound) {
		// Same answer as a wrong password so usernames cannot be probed.
		err = auth.ErrInvalidCredentials
	}
	if err == nil {
		err = auth.CheckPassword(user.PasswordHash, req.Password)
	}
	if err != nil {
		h.respondError(c, err, "Failed to log in")
		return
	}

	h.issueToken(c, http.StatusOK, user.ID, user.Username, "Login successful")
}

// Me returns the authenticated account.
// GET /api/me
func (h *Handler) Me(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		h.respondError(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) issueToken(c *gin.Context, status int, id, username, msg string) {
	token, err := h.tokens.Generate(id, username)
	if err != nil {
		h.respondError(c, err, "Failed to generate token")
		return
	}
	c.JSON(status, LoginResponse{
		Token:    token,
		UserID:   id,
		Username: username,
		Message:  msg,
	})
}
