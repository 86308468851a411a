package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haltakov/iwanttoreadmore/internal/session"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // username or e-mail
	Password   string `json:"password" binding:"required"`
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.Create(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (h *Handler) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username, err := h.userService.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	signed, err := h.signer.Sign(username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Set the cookie header directly: the signed value is already a
	// name=value pair and must not be escaped.
	expires := time.Now().Add(session.Lifetime).UTC().Format(http.TimeFormat)
	c.Header("Set-Cookie", signed+"; Path=/; Expires="+expires+"; SameSite=Strict; HttpOnly")

	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

// LogoutUser replaces the login cookie with an immediately expired one.
// There is no server-side session state to invalidate.
func (h *Handler) LogoutUser(c *gin.Context) {
	c.Header("Set-Cookie", "user=; Path=/; Expires=Thu, 01 Jan 1970 00:00:00 GMT; SameSite=Strict; HttpOnly")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) CheckLoggedIn(c *gin.Context) {
	username, ok := h.identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": username})
}
