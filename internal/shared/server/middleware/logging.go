package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		batchID, _ := c.Get("batchId")
		fileID, _ := c.Get("fileId")
		uploadStatus := ""
		if raw, ok := c.Get("uploadStatus"); ok {
			if s, ok := raw.(string); ok {
				uploadStatus = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":    reqID,
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status":        status,
			"upload_status": uploadStatus,
			"duration_ms":   float64(latency.Microseconds()) / 1000.0,
			"batch_id":      batchID,
			"file_id":       fileID,
			"client_ip":     c.ClientIP(),
			"user_agent":    c.Request.UserAgent(),
		})
	}
}
