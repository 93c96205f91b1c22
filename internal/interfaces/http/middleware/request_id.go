// Package middleware provides the gin middleware of the catalog API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/infrastructure/logger"
	"github.com/movable/backend/internal/infrastructure/provider"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

// MaxRequestIDLength bounds client supplied request ids
const MaxRequestIDLength = 128

// RequestID keeps a sane client supplied request id or generates a random UUID.
// The id is echoed in the response and stored in the request context for logging.
func RequestID() gin.HandlerFunc {
	return RequestIDFrom(provider.UUIDGenerator{})
}

// RequestIDFrom is RequestID with generated ids taken from ids
func RequestIDFrom(ids shared.UUIDProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > MaxRequestIDLength {
			requestID = ids.NewUUID()
		}

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(HeaderRequestID, requestID)

		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		c.Next()
	}
}
