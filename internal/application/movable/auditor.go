package movable

import (
	"context"
	"fmt"

	"github.com/movable/backend/internal/domain/shared"
)

// Auditor stamps audit records using the caller's account and the current time.
// Values that are not shared.Auditable are left untouched.
type Auditor struct {
	accounts shared.AccountProvider
	clock    shared.TimeProvider
}

// NewAuditor creates a new auditor
func NewAuditor(accounts shared.AccountProvider, clock shared.TimeProvider) *Auditor {
	return &Auditor{
		accounts: accounts,
		clock:    clock,
	}
}

// Fresh replaces the audit of item with a new one created by the caller
func (a *Auditor) Fresh(ctx context.Context, item any) error {
	auditable, ok := item.(shared.Auditable)
	if !ok {
		return nil
	}
	actor, err := a.actor(ctx)
	if err != nil {
		return err
	}
	auditable.SetAudit(shared.NewAudit(actor, a.clock.Now()))
	return nil
}

// Stamp applies shared.Modify to the audit of item
func (a *Auditor) Stamp(ctx context.Context, item any) error {
	auditable, ok := item.(shared.Auditable)
	if !ok {
		return nil
	}
	actor, err := a.actor(ctx)
	if err != nil {
		return err
	}
	auditable.SetAudit(shared.Modify(auditable.GetAudit(), actor, a.clock.Now()))
	return nil
}

// Carry copies the audit of stored onto item and then stamps it.
// Client supplied audit values are discarded.
func (a *Auditor) Carry(ctx context.Context, item, stored any) error {
	auditable, ok := item.(shared.Auditable)
	if !ok {
		return nil
	}
	var existing *shared.Audit
	if source, ok := stored.(shared.Auditable); ok {
		existing = source.GetAudit()
	}
	auditable.SetAudit(existing)
	return a.Stamp(ctx, item)
}

func (a *Auditor) actor(ctx context.Context) (string, error) {
	account, err := a.accounts.GetAccount(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve audit actor: %w", err)
	}
	return account.UUID, nil
}
