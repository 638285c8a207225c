package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "requestID"
)

// RequestID assigns every request an id, honoring one supplied by the
// fronting proxy, and echoes it in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID, or "" outside it.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
