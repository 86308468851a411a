package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haltakov/iwanttoreadmore/internal/config"
	"github.com/haltakov/iwanttoreadmore/internal/models"
	"github.com/haltakov/iwanttoreadmore/internal/services"
	"github.com/haltakov/iwanttoreadmore/internal/session"
)

type Handler struct {
	cfg         config.Config
	logger      *slog.Logger
	signer      *session.Signer
	userService *services.UserService
	voteService *services.VoteService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	signer *session.Signer,
	userService *services.UserService,
	voteService *services.VoteService,
) *Handler {
	return &Handler{
		cfg:         cfg,
		logger:      logger,
		signer:      signer,
		userService: userService,
		voteService: voteService,
	}
}

// respondError translates the service error tiers into HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUnavailable):
		h.logger.Error("store unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
	default:
		h.logger.Error("unexpected error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
