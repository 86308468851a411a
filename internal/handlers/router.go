package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/haltakov/iwanttoreadmore/internal/services"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.Default()

	// The vote endpoints are embedded on third-party pages, so every
	// response carries permissive CORS headers.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: false,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Public routes
	r.POST("/api/register", h.RegisterUser)
	r.POST("/api/login", h.LoginUser)
	r.POST("/api/logout", h.LogoutUser)
	r.GET("/api/loggedin", h.CheckLoggedIn)
	r.GET("/api/votes/:user", h.GetVotesForUser)
	r.GET("/api/votes/:user/:project", h.GetVotesForProject)

	// Vote submission, rate limited per IP
	vote := r.Group("/vote")
	if rateLimiter != nil {
		vote.Use(h.RateLimitMiddleware(rateLimiter))
	}
	{
		vote.POST("/:user/:project/:topic", h.SubmitVote)
		vote.GET("/:user/:project/:topic", h.SubmitVoteAndRedirect)
	}

	// Account routes
	authorized := r.Group("/api/user")
	authorized.Use(h.AuthRequired())
	{
		authorized.GET("", h.GetAccount)
		authorized.POST("/password", h.ChangePassword)
		authorized.POST("/email", h.ChangeEmail)
		authorized.POST("/public", h.SetAccountPublic)
		authorized.POST("/voted-message", h.SetVotedMessage)
		authorized.POST("/single-voting", h.SetSingleVotingProjects)
		authorized.GET("/votes", h.GetOwnVotes)
		authorized.GET("/votes/:project/:topic/history", h.GetVoteHistory)
		authorized.POST("/votes/hide", h.HideVote)
		authorized.DELETE("/votes", h.DeleteVote)
	}

	return r
}
