package middleware

import (
	"time"

	"todolist/internal/core/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		url := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			url = url + "?" + raw
		}

		c.Next()

		log.InfoWithTrace(c.Request.Context(), "HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("url", url),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", GetCurrent(c).RequestID()),
			zap.String("client_ip", c.ClientIP()),
			zap.Time("started_at", start),
		)
	}
}
