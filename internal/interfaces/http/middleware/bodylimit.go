package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/movable/backend/internal/infrastructure/logger"
	"github.com/movable/backend/internal/interfaces/http/dto"
)

// DefaultBodyLimit is the request body limit of the catalog API
const DefaultBodyLimit = 1 << 20

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				dto.ErrCodeTooLarge,
				"Request body exceeds maximum allowed size",
				logger.RequestID(c.Request.Context()),
			))
			return
		}

		// chunked bodies carry no length up front
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
