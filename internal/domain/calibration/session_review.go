package calibration

import (
	"time"

	"github.com/google/uuid"
)

// SessionReview records membership of a signed review in a session. The
// unique pair makes repeated adds idempotent.
type SessionReview struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_review;column:session_id" json:"session_id"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_review;column:review_id" json:"review_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SessionReview) TableName() string { return "calibration_session_review" }
