package middleware

import (
	"fmt"
	"time"

	"insightboard/internal/config"
	"insightboard/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit applies one endpoint-class budget keyed by client IP. Exceeding
// the budget is a normal denial with Retry-After, never a hard error.
func RateLimit(limiter *ratelimit.Limiter, cfg *config.Config, class string, budget config.RateBudget, fallbackWindow time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Security.RateLimit.Enabled || budget.Limit <= 0 {
			c.Next()
			return
		}

		identifier := class + ":" + ClientIP(c)
		result := limiter.Check(identifier, budget.Limit, budget.WindowDuration(fallbackWindow))

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt.Unix()))

		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(429, gin.H{
				"error":       "RATE_LIMITED",
				"message":     "Too many requests, try again later",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
