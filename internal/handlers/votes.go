package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haltakov/iwanttoreadmore/internal/models"
)

type VoteTargetRequest struct {
	Project string `json:"project" binding:"required"`
	Topic   string `json:"topic" binding:"required"`
}

type HideVoteRequest struct {
	Project string `json:"project" binding:"required"`
	Topic   string `json:"topic" binding:"required"`
	Hidden  *bool  `json:"hidden" binding:"required"`
}

// SubmitVote handles the embedded vote button. The response is an empty 200
// whether the vote was counted or silently rejected.
func (h *Handler) SubmitVote(c *gin.Context) {
	err := h.voteService.Submit(c.Request.Context(),
		c.Param("user"), c.Param("project"), c.Param("topic"), c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// SubmitVoteAndRedirect casts the vote and sends the browser to the
// account's voted page. The redirect is issued even when the vote is
// rejected, so the outcome stays indistinguishable.
func (h *Handler) SubmitVoteAndRedirect(c *gin.Context) {
	ctx := c.Request.Context()
	user := c.Param("user")

	if err := h.voteService.Submit(ctx, user, c.Param("project"), c.Param("topic"), c.ClientIP()); err != nil {
		h.respondError(c, err)
		return
	}

	location := h.cfg.VotedPageURL
	if account, err := h.userService.GetByUsername(ctx, user); err == nil && account != nil && account.VotedRedirect != "" {
		location = account.VotedRedirect
	}
	c.Redirect(http.StatusFound, location)
}

// GetVotesForUser lists the votes of an account. The list is returned only
// when the account is public or the requester is its owner; otherwise the
// response is an explicit "invalid user", distinct from an empty list.
// Hidden topics are stripped for everyone but the owner.
func (h *Handler) GetVotesForUser(c *gin.Context) {
	user := c.Param("user")
	allowed, owner := h.canViewVotes(c, user)
	if !allowed {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid user"})
		return
	}

	votes, err := h.voteService.ListForUser(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !owner {
		votes = withoutHidden(votes)
	}
	c.JSON(http.StatusOK, votes)
}

func (h *Handler) GetVotesForProject(c *gin.Context) {
	user := c.Param("user")
	allowed, owner := h.canViewVotes(c, user)
	if !allowed {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid user"})
		return
	}

	votes, err := h.voteService.ListForProject(c.Request.Context(), user, c.Param("project"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !owner {
		votes = withoutHidden(votes)
	}
	c.JSON(http.StatusOK, votes)
}

// GetOwnVotes lists all of the logged-in user's votes, hidden ones included.
func (h *Handler) GetOwnVotes(c *gin.Context) {
	votes, err := h.voteService.ListForUser(c.Request.Context(), c.GetString(contextUserKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, votes)
}

func (h *Handler) GetVoteHistory(c *gin.Context) {
	timestamps, err := h.voteService.History(c.Request.Context(),
		c.GetString(contextUserKey), c.Param("project"), c.Param("topic"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timestamps)
}

func (h *Handler) HideVote(c *gin.Context) {
	var req HideVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := c.GetString(contextUserKey)
	if !h.voteExists(c, username, req.Project, req.Topic) {
		return
	}

	if err := h.voteService.SetHidden(c.Request.Context(), username, req.Project, req.Topic, *req.Hidden); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Topic updated"})
}

func (h *Handler) DeleteVote(c *gin.Context) {
	var req VoteTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := c.GetString(contextUserKey)
	if !h.voteExists(c, username, req.Project, req.Topic) {
		return
	}

	if err := h.voteService.Delete(c.Request.Context(), username, req.Project, req.Topic); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Topic deleted"})
}

func (h *Handler) canViewVotes(c *gin.Context, user string) (allowed, owner bool) {
	if requester, ok := h.identity(c); ok && requester == user {
		return true, true
	}
	account, err := h.userService.GetByUsername(c.Request.Context(), user)
	if err != nil || account == nil {
		return false, false
	}
	return account.IsPublic, false
}

func withoutHidden(entries []models.VoteEntry) []models.VoteEntry {
	visible := make([]models.VoteEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Hidden {
			visible = append(visible, entry)
		}
	}
	return visible
}

// voteExists pre-checks hide/delete targets and writes the 404 itself when
// the topic is missing.
func (h *Handler) voteExists(c *gin.Context, user, project, topic string) bool {
	count, err := h.voteService.GetCount(c.Request.Context(), user, models.TopicKey(project, topic))
	if err != nil {
		h.respondError(c, err)
		return false
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
		return false
	}
	return true
}
