package handlers

import (
	"medipulse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves a request-scoped Zap logger from the Gin context or falls back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// RequestLogger stores a logger tagged with the request path for handlers to use.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("logger", utils.GetLogger().With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
		))
		c.Next()
	}
}
