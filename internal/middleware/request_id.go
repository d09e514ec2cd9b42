package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the correlation id across services.
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID accepts an inbound request id or generates one, and echoes it on
// the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFrom returns the request correlation id, if set.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
