package httpapi

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
	"github.com/Aleph-Alpha/catalog-ingest/v1/metrics"
)

// RequestMetrics counts requests by status and times them by route.
func RequestMetrics(m metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.IncrementRequests(strconv.Itoa(c.Writer.Status()))
		m.RecordRequestDuration(start, route)
	}
}

// RequestLogger logs one line per request through the service logger.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.FullPath() == healthPath {
			return
		}
		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if c.Writer.Status() >= 500 {
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last
			}
			log.ErrorWithContext(c.Request.Context(), "request failed", err, fields)
			return
		}
		log.DebugWithContext(c.Request.Context(), "request served", nil, fields)
	}
}
