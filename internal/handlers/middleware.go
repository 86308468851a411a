package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haltakov/iwanttoreadmore/internal/services"
)

const contextUserKey = "username"

// identity returns the verified username from the request's login cookie.
func (h *Handler) identity(c *gin.Context) (string, bool) {
	return h.signer.Identity(c.GetHeader("Cookie"))
}

// AuthRequired rejects requests without a valid login cookie and stores the
// verified username in the request context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := h.identity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Set(contextUserKey, username)
		c.Next()
	}
}

func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		l := limiter.GetLimiter(ip)
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
