package middleware

import (
	"github.com/flexcargo/flexcargo/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware counts requests per route template and status
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status())
	}
}
