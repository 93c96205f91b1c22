// Package provider supplies the time, identity and caller account collaborators of the engine.
package provider

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/movable/backend/internal/domain/shared"
)

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

// Now returns the current time in UTC
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator generates random version 4 UUIDs
type UUIDGenerator struct{}

// NewUUID returns a new random UUID string
func (UUIDGenerator) NewUUID() string {
	return uuid.NewString()
}

type accountKey struct{}

// WithAccount stores the calling account in the context
func WithAccount(ctx context.Context, account shared.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// AccountFromContext returns the calling account stored in the context
func AccountFromContext(ctx context.Context) (shared.Account, bool) {
	account, ok := ctx.Value(accountKey{}).(shared.Account)
	return account, ok
}

// ContextAccountProvider resolves the caller from the request context.
// Without an account in the context it answers with the fallback, or ErrUnauthorized when there is none.
type ContextAccountProvider struct {
	fallback *shared.Account
}

// NewContextAccountProvider creates a provider without a fallback account
func NewContextAccountProvider() *ContextAccountProvider {
	return &ContextAccountProvider{}
}

// WithFallback returns a provider answering with account when the context carries none
func (p *ContextAccountProvider) WithFallback(account shared.Account) *ContextAccountProvider {
	return &ContextAccountProvider{fallback: &account}
}

// GetAccount returns the calling account
func (p *ContextAccountProvider) GetAccount(ctx context.Context) (shared.Account, error) {
	if account, ok := AccountFromContext(ctx); ok {
		return account, nil
	}
	if p.fallback != nil {
		return *p.fallback, nil
	}
	return shared.Account{}, shared.ErrUnauthorized
}

var (
	_ shared.TimeProvider    = SystemClock{}
	_ shared.UUIDProvider    = UUIDGenerator{}
	_ shared.AccountProvider = (*ContextAccountProvider)(nil)
)
