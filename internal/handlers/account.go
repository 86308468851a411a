package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ChangePasswordRequest struct {
	NewPassword  string `json:"newpassword" binding:"required"`
	NewPassword2 string `json:"newpassword2" binding:"required"`
}

type ChangeEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

type SetPublicRequest struct {
	IsPublic *bool `json:"is_public" binding:"required"`
}

type VotedMessageRequest struct {
	VotedMessage  string `json:"voted_message"`
	VotedRedirect string `json:"voted_redirect"`
}

type SingleVotingRequest struct {
	Projects []string `json:"projects"`
}

func (h *Handler) GetAccount(c *gin.Context) {
	username := c.GetString(contextUserKey)

	user, err := h.userService.GetByUsername(c.Request.Context(), username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NewPassword != req.NewPassword2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The two passwords don't match"})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), c.GetString(contextUserKey), req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

func (h *Handler) ChangeEmail(c *gin.Context) {
	var req ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ChangeEmail(c.Request.Context(), c.GetString(contextUserKey), req.Email); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "E-mail changed"})
}

func (h *Handler) SetAccountPublic(c *gin.Context) {
	var req SetPublicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.SetPublic(c.Request.Context(), c.GetString(contextUserKey), *req.IsPublic); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Visibility updated"})
}

func (h *Handler) SetVotedMessage(c *gin.Context) {
	var req VotedMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.userService.SetVotedMessageAndRedirect(c.Request.Context(), c.GetString(contextUserKey), req.VotedMessage, req.VotedRedirect)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Voted message updated"})
}

func (h *Handler) SetSingleVotingProjects(c *gin.Context) {
	var req SingleVotingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.userService.SetSingleVotingProjects(c.Request.Context(), c.GetString(contextUserKey), req.Projects)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Single voting projects updated"})
}
