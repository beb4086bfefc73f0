package middleware

import (
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

// IPGate rejects blacklisted addresses before anything else runs. It never
// consults the session resolver; a match is a hard denial. On store failure
// the gate fails closed.
func IPGate(blacklist *services.BlacklistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ClientIP(c)

		blocked, err := blacklist.IsBlocked(ip)
		if err != nil {
			c.AbortWithStatusJSON(503, gin.H{"error": "TRANSIENT_ERROR", "message": "Service temporarily unavailable"})
			return
		}
		if blocked {
			blacklist.RegisterAttempt(ip)
			c.AbortWithStatusJSON(403, gin.H{"error": "IP_BLOCKED", "message": "Access Denied"})
			return
		}

		c.Next()
	}
}
