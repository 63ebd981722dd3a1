package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds various security headers to the response
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// connect-src must allow wss: for the socket.io and /ws transports
		c.Header("Content-Security-Policy", "default-src 'self'; connect-src 'self' wss: ws:; img-src 'self' data: https:")
		c.Next()
	}
}
