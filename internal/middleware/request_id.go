package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentbase/agentbase/internal/pkg/logutil"
)

const ContextRequestIDKey = "request_id"

// RequestID tags every request with an id and scopes the request logger to
// it, so handler and service logs correlate without threading ids by hand.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-Id", requestID)

		logger := logutil.GetLogger(c.Request.Context()).With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(logutil.WithLogger(c.Request.Context(), logger))
		c.Next()
	}
}
