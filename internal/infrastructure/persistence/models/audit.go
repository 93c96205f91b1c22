package models

import (
	"time"

	"github.com/movable/backend/internal/domain/shared"
)

// AuditColumns maps a shared.Audit. The timestamps are written by the engine, never by gorm.
type AuditColumns struct {
	CreatedBy *string    `gorm:"type:varchar(100);index"`
	CreatedAt *time.Time `gorm:"autoCreateTime:false"`
	UpdatedBy *string    `gorm:"type:varchar(100)"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
}

// ToDomain returns the audit, or nil when the record was never audited
func (a AuditColumns) ToDomain() *shared.Audit {
	if a.CreatedBy == nil && a.CreatedAt == nil {
		return nil
	}
	audit := &shared.Audit{}
	if a.CreatedBy != nil {
		audit.CreatedBy = *a.CreatedBy
	}
	if a.CreatedAt != nil {
		audit.CreatedAt = *a.CreatedAt
	}
	if a.UpdatedBy != nil {
		audit.UpdatedBy = *a.UpdatedBy
	}
	if a.UpdatedAt != nil {
		audit.UpdatedAt = *a.UpdatedAt
	}
	return audit
}

// AuditFromDomain maps an audit to its columns
func AuditFromDomain(audit *shared.Audit) AuditColumns {
	if audit == nil {
		return AuditColumns{}
	}
	return AuditColumns{
		CreatedBy: &audit.CreatedBy,
		CreatedAt: &audit.CreatedAt,
		UpdatedBy: &audit.UpdatedBy,
		UpdatedAt: &audit.UpdatedAt,
	}
}

func deref(id *int) int {
	if id == nil {
		return 0
	}
	return *id
}

func idPtr(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}
