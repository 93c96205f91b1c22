package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/infrastructure/logger"
	"github.com/movable/backend/internal/infrastructure/provider"
	"github.com/movable/backend/internal/interfaces/http/dto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Caller identity headers, set by the gateway in front of the API
const (
	HeaderAccountID    = "X-Account-ID"
	HeaderAccountUUID  = "X-Account-UUID"
	HeaderAccountName  = "X-Account-Name"
	HeaderAccountRoles = "X-Account-Roles"
)

// Account reads the caller from the X-Account headers and stores it in the request context.
// Requests without an account uuid are rejected with 401.
func Account() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := accountFromHeaders(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeUnauthorized,
				"Missing or invalid account headers",
				logger.RequestID(c.Request.Context()),
			))
			return
		}

		ctx := provider.WithAccount(c.Request.Context(), account)
		ctx = logger.WithAccountID(ctx, account.UUID)
		c.Request = c.Request.WithContext(ctx)

		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(
				attribute.String("account.uuid", account.UUID),
				attribute.Bool("account.admin", account.IsAdmin()),
			)
		}
		c.Next()
	}
}

func accountFromHeaders(c *gin.Context) (shared.Account, bool) {
	account := shared.Account{
		UUID:     strings.TrimSpace(c.GetHeader(HeaderAccountUUID)),
		Username: strings.TrimSpace(c.GetHeader(HeaderAccountName)),
	}
	if account.UUID == "" || len(account.UUID) > MaxRequestIDLength {
		return shared.Account{}, false
	}
	if raw := c.GetHeader(HeaderAccountID); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return shared.Account{}, false
		}
		account.ID = id
	}
	for _, role := range strings.Split(c.GetHeader(HeaderAccountRoles), ",") {
		if role = strings.TrimSpace(role); role != "" {
			account.Roles = append(account.Roles, role)
		}
	}
	return account, true
}
