package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Closed action set; one record per mutating operation.
const (
	ActionGoalsSubmitted   = "GOALS_SUBMITTED"
	ActionScoresSubmitted  = "SCORES_SUBMITTED"
	ActionEmployeeSigned   = "EMPLOYEE_SIGNED"
	ActionManagerSigned    = "MANAGER_SIGNED"
	ActionReviewRejected   = "REVIEW_REJECTED"
	ActionReviewArchived   = "REVIEW_ARCHIVED"
	ActionReviewAdjusted   = "REVIEW_ADJUSTED"
	ActionGoalCreated      = "GOAL_CREATED"
	ActionGoalUpdated      = "GOAL_UPDATED"
	ActionGoalDeleted      = "GOAL_DELETED"
	ActionGoalsReordered   = "GOALS_REORDERED"
	ActionCompetencyScored = "COMPETENCY_SCORE_UPSERTED"

	ActionSessionCreated       = "SESSION_CREATED"
	ActionSessionStatusChanged = "SESSION_STATUS_CHANGED"
	ActionSessionDeleted       = "SESSION_DELETED"
	ActionSessionReviewAdded   = "SESSION_REVIEW_ADDED"
	ActionParticipantUpserted  = "PARTICIPANT_UPSERTED"
)

const (
	EntityReview      = "review"
	EntityGoal        = "goal"
	EntityCompetency  = "competency_score"
	EntitySession     = "calibration_session"
	EntityAdjustment  = "calibration_adjustment"
	EntityParticipant = "calibration_participant"
)

// LogEntry is append-only; the repo exposes Create and reads only.
type LogEntry struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`

	Action     string    `gorm:"not null;index;column:action" json:"action"`
	EntityType string    `gorm:"not null;column:entity_type" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index;column:entity_id" json:"entity_id"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;column:actor_id" json:"actor_id"`

	Before datatypes.JSON `gorm:"column:before" json:"before,omitempty"`
	After  datatypes.JSON `gorm:"column:after" json:"after,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (LogEntry) TableName() string { return "audit_log" }
