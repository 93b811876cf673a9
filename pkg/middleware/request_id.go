package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/logger"
)

// HeaderRequestID is the inbound/outbound request id header
const HeaderRequestID = "X-Request-Id"

// ContextKeyRequestID is the gin context key for the request id
const ContextKeyRequestID = "request_id"

// RequestID assigns a request id (honoring an inbound header) and
// threads it through the gin context and the request context for the
// logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID extracts the request id from the gin context
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyRequestID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
