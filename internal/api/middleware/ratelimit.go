package middleware

import (
	"log"
	"net/http"

	"fleet-compliance/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware throttles requests per client IP. When the limiter
// itself errors (e.g. Redis down) the request is let through.
func RateLimitMiddleware(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("Rate limit check failed, allowing request: %v", err)
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded, try again later"})
			c.Abort()
			return
		}

		c.Next()
	}
}
