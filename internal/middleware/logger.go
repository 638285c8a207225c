package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Logger writes one access log line per request. Paths under skipPrefixes
// (scrape traffic, static images) are not logged.
func Logger(log zerolog.Logger, skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		for _, prefix := range skipPrefixes {
			if prefix != "" && strings.HasPrefix(path, prefix) {
				return
			}
		}

		status := c.Writer.Status()
		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Str("request_id", RequestIDFrom(c)).
			Msg("http request")
	}
}
