package shared

import (
	"context"
	"slices"
	"time"
)

// RoleAdmin grants access to every account's records
const RoleAdmin = "ROLE_ADMIN"

// Account is the identity of the caller performing an operation
type Account struct {
	ID       int      `json:"id"`
	UUID     string   `json:"uuid"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// IsAdmin returns true if the account has the admin role
func (a Account) IsAdmin() bool {
	return slices.Contains(a.Roles, RoleAdmin)
}

// AccountProvider resolves the account of the current caller
type AccountProvider interface {
	GetAccount(ctx context.Context) (Account, error)
}

// TimeProvider supplies the current time
type TimeProvider interface {
	Now() time.Time
}

// UUIDProvider generates unique identifiers
type UUIDProvider interface {
	NewUUID() string
}
