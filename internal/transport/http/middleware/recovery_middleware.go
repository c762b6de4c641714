package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/pkg/logger"
)

// RecoveryConfig holds configuration for the recovery middleware
type RecoveryConfig struct {
	// Logger is the logger instance to use
	Logger *logger.Logger

	// EnableStackTrace determines if stack traces should be logged
	EnableStackTrace bool

	// StackTraceSize is the maximum size of stack trace to capture
	StackTraceSize int
}

// DefaultRecoveryConfig returns a default recovery configuration
func DefaultRecoveryConfig() *RecoveryConfig {
	return &RecoveryConfig{
		EnableStackTrace: true,
		StackTraceSize:   4096,
	}
}

// RecoveryMiddleware returns a Gin middleware for panic recovery with logging
func RecoveryMiddleware() gin.HandlerFunc {
	return RecoveryMiddlewareWithConfig(DefaultRecoveryConfig())
}

// RecoveryMiddlewareWithConfig returns a panic recovery middleware with custom configuration
func RecoveryMiddlewareWithConfig(cfg *RecoveryConfig) gin.HandlerFunc {
	if cfg == nil {
		cfg = DefaultRecoveryConfig()
	}

	return func(c *gin.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}

			log := cfg.Logger
			if log == nil {
				log = logger.Get()
			}
			requestID := GetRequestID(c)

			fields := []logger.Field{
				logger.Any("panic", err),
				logger.RequestID(requestID),
				logger.Method(c.Request.Method),
				logger.Path(c.Request.URL.Path),
				logger.Query(c.Request.URL.RawQuery),
				logger.ClientIP(c.ClientIP()),
				logger.Time("recovered_at", time.Now()),
			}
			if traceID := GetTraceID(c); traceID != "" {
				fields = append(fields, logger.TraceID(traceID))
			}
			if cfg.EnableStackTrace {
				stack := debug.Stack()
				if cfg.StackTraceSize > 0 && len(stack) > cfg.StackTraceSize {
					stack = stack[:cfg.StackTraceSize]
				}
				fields = append(fields, logger.ByteString("stacktrace", stack))
			}

			log.Error("Panic recovered", fields...)

			if c.IsAborted() {
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "internal_error",
				"message":    "An unexpected error occurred",
				"request_id": requestID,
			})
		}()

		c.Next()
	}
}
