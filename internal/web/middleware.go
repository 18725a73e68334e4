package web

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// slowRequest is the latency above which a request is logged as slow.
const slowRequest = 200 * time.Millisecond

// RequestLogger logs every request with its status and latency.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		log.Info("request", attrs...)

		if latency > slowRequest {
			log.Warn("slow request", "method", c.Request.Method, "path", c.Request.URL.Path, "latency", latency)
		}
	}
}
