package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger journalise chaque requête HTTP via zap.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"ip", c.ClientIP(),
			"latency", time.Since(start),
		}
		switch {
		case status >= 500:
			zap.S().Errorw("HTTP", fields...)
		case status >= 400:
			zap.S().Warnw("HTTP", fields...)
		default:
			zap.S().Debugw("HTTP", fields...)
		}
	}
}
