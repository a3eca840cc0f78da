// Package middleware provides the HTTP middleware chain: request ids,
// deadlines, bearer authentication, and the error envelope.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openleadr/openleadr-go/internal/auth"
)

type contextKey string

const (
	// RequestIDHeader is the HTTP header for request tracing. Its value is
	// echoed as the correlation_id of error envelopes.
	RequestIDHeader = "X-Request-ID"

	ctxKeyRequestID contextKey = "request_id"
	ctxKeyCaller    contextKey = "caller"
)

// RequestID injects a unique request ID into the context and response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			id, err := uuid.NewV7()
			if err != nil {
				id = uuid.New()
			}
			rid = id.String()
		}
		c.Set(string(ctxKeyRequestID), rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), ctxKeyRequestID, rid),
		)
		c.Next()
	}
}

// GetRequestID extracts the request ID from context.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// SetCaller stores the resolved caller for downstream handlers.
func SetCaller(c *gin.Context, caller auth.Caller) {
	c.Set(string(ctxKeyCaller), caller)
}

// GetCaller extracts the resolved caller; ok is false on unauthenticated
// routes.
func GetCaller(c *gin.Context) (auth.Caller, bool) {
	v, exists := c.Get(string(ctxKeyCaller))
	if !exists {
		return auth.Caller{}, false
	}
	caller, ok := v.(auth.Caller)
	return caller, ok
}
