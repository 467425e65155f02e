package review

import (
	"time"

	"github.com/google/uuid"
)

type CompetencyScore struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	ReviewID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_competency;column:review_id" json:"review_id"`

	// CompetencyID is a framework catalog code, e.g. "ownership".
	CompetencyID string `gorm:"not null;uniqueIndex:idx_review_competency;column:competency_id" json:"competency_id"`

	Score int    `gorm:"not null;column:score" json:"score"`
	Notes string `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CompetencyScore) TableName() string { return "competency_score" }
