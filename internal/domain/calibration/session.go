package calibration

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPreparation     = "PREPARATION"
	StatusInProgress      = "IN_PROGRESS"
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusCompleted       = "COMPLETED"
	StatusCancelled       = "CANCELLED"
)

const (
	ScopeBusinessUnit = "BUSINESS_UNIT"
	ScopeCompanyWide  = "COMPANY_WIDE"
)

func ValidScope(scope string) bool {
	return scope == ScopeBusinessUnit || scope == ScopeCompanyWide
}

func TerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

type Session struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`

	Name          string    `gorm:"not null;column:name" json:"name"`
	Scope         string    `gorm:"not null;column:scope" json:"scope"`
	Status        string    `gorm:"not null;default:'PREPARATION';column:status" json:"status"`
	FacilitatorID uuid.UUID `gorm:"type:uuid;not null;column:facilitator_id" json:"facilitator_id"`
	Notes         string    `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Session) TableName() string { return "calibration_session" }
