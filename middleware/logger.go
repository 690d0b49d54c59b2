package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// Logger tags every request with an id and logs method, path, status and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("requestId", reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		status := c.Writer.Status()
		icon := "✅"
		switch {
		case status >= 500:
			icon = "❌"
		case status >= 400:
			icon = "⚠️"
		}
		log.Printf("%s %s %s %d %s ip=%s req=%s", icon, c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.ClientIP(), reqID)
	}
}
