package shared

import "time"

// Audit records who created and last updated an entity
type Audit struct {
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedBy string    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAudit creates an audit whose created and updated pairs are both set to actor and at
func NewAudit(actor string, at time.Time) *Audit {
	return &Audit{
		CreatedBy: actor,
		CreatedAt: at,
		UpdatedBy: actor,
		UpdatedAt: at,
	}
}

// Modify returns a new audit with the updated pair set to actor and at.
// The created pair of existing is kept; a nil existing audit is initialized with all four fields.
// existing itself is never changed.
func Modify(existing *Audit, actor string, at time.Time) *Audit {
	if existing == nil {
		return NewAudit(actor, at)
	}
	return &Audit{
		CreatedBy: existing.CreatedBy,
		CreatedAt: existing.CreatedAt,
		UpdatedBy: actor,
		UpdatedAt: at,
	}
}
