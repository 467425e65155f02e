package calibration

import (
	"time"

	"github.com/google/uuid"
)

const (
	ParticipantRoleFacilitator = "FACILITATOR"
	ParticipantRoleParticipant = "PARTICIPANT"
	ParticipantRoleObserver    = "OBSERVER"
)

func ValidParticipantRole(role string) bool {
	switch role {
	case ParticipantRoleFacilitator, ParticipantRoleParticipant, ParticipantRoleObserver:
		return true
	default:
		return false
	}
}

// Participant is keyed on (session, user); adding an existing participant
// updates the role instead of erroring.
type Participant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_user;column:session_id" json:"session_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_user;column:user_id" json:"user_id"`

	Role string `gorm:"not null;default:'PARTICIPANT';column:role" json:"role"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Participant) TableName() string { return "calibration_participant" }
