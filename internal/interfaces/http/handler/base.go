// Package handler exposes the music catalog facades over HTTP.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/domain/shared/result"
	"github.com/movable/backend/internal/infrastructure/logger"
	"github.com/movable/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func requestID(c *gin.Context) string {
	return logger.RequestID(c.Request.Context())
}

// Error sends an error response with the status of its code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message, requestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(code, message, requestID(c)))
}

// HandleError turns an infrastructure error into a response.
// The caller's missing identity is a 401, anything else is logged and hidden behind a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if errors.Is(err, shared.ErrUnauthorized) {
		h.Error(c, dto.ErrCodeUnauthorized, shared.ErrUnauthorized.Message)
		return
	}
	logger.L(c.Request.Context()).Error("Request failed", zap.Error(err))
	_ = c.Error(err)
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// ParseID reads the :id path parameter, answering 400 when it is not a positive integer
func (h *BaseHandler) ParseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.BadRequest(c, dto.ErrCodeBadRequest, "Invalid id: "+c.Param("id"))
		return 0, false
	}
	return id, true
}

// Bind decodes the JSON body into target, answering 400 on malformed input
func (h *BaseHandler) Bind(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// respond renders the outcome of a facade call.
// Rejected results become an issue list with 404 for missing records and 422 otherwise.
// Results without a payload render no data.
func respond[T any](h *BaseHandler, c *gin.Context, status int, r *result.Result[T], err error) {
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if r.IsError() {
		issues := dto.NewIssueList(r.Events())
		if issues.IsNotFound() {
			c.JSON(http.StatusNotFound, issues)
			return
		}
		c.JSON(http.StatusUnprocessableEntity, issues)
		return
	}

	var payload any
	if data, ok := r.Data(); ok {
		if _, unit := any(data).(result.Unit); !unit {
			payload = data
		}
	}
	c.JSON(status, dto.NewSuccessResponse(payload, r.Events()...))
}
