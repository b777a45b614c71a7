package middleware

import (
	"strconv"
	"time"

	"todolist/internal/core/telemetry"

	"github.com/gin-gonic/gin"
)

func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		metrics.IncrementActiveConnections(ctx)
		defer metrics.DecrementActiveConnections(ctx)

		c.Next()

		// Unmatched routes share one label to keep cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordRequest(ctx, c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
