package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog writes one line per served request. The correlation id is read
// from the response header set by the subscription handler.
func AccessLog(logger *zap.Logger, requestIDHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status_code", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id := c.Writer.Header().Get(requestIDHeader); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}

		if c.Writer.Status() >= 500 {
			logger.Error("HTTP request failed", fields...)
			return
		}
		logger.Info("HTTP request completed", fields...)
	}
}
