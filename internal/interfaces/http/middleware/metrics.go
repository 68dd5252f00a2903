package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts and latencies per method and route.  The
// route label uses the matched pattern, not the raw path, to keep label
// cardinality bounded.
func Metrics(m *prometheus.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
