package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

// slowRequestThreshold is the duration above which a completed request is
// logged at WARN.
const slowRequestThreshold = 3 * time.Second

// RequestLogging logs every completed request: method, path, status,
// duration, size, client, request ID.  5xx log at ERROR, 4xx and slow
// requests at WARN.  skipPaths silences high-frequency probes.
func RequestLogging(log logging.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.Int("bytes", c.Writer.Size()),
			logging.String("client_ip", c.ClientIP()),
			logging.String("request_id", GetRequestID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request completed", fields...)
		case status >= 400:
			log.Warn("request completed", fields...)
		case duration >= slowRequestThreshold:
			log.Warn("slow request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

//Personal.AI order the ending
