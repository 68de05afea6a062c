package api

import (
	"time"

	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

func accessLog(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		var traceID string
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
			traceID = sc.TraceID().String()
		}

		l.Infof(
			"type: access, method: %s, url: %s, status: %d, userAgent: %s, traceID: %s, latency: %s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			c.Request.UserAgent(),
			traceID,
			time.Since(start),
		)
		for _, err := range c.Errors {
			l.Errorf("type: request, url: %s, error: %v", c.Request.URL.Path, err.Err)
		}
	}
}
