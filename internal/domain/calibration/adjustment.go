package calibration

import (
	"time"

	"github.com/google/uuid"
)

// Adjustment is append-only. Its repo exposes no update or delete; the row
// is the durable audit record of a calibration override and Seq orders
// repeated overrides of the same review within one session.
type Adjustment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_adjustment_session_review;column:session_id" json:"session_id"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;index:idx_adjustment_session_review;column:review_id" json:"review_id"`

	AdjustedBy uuid.UUID `gorm:"type:uuid;not null;column:adjusted_by" json:"adjusted_by"`
	Seq        int       `gorm:"not null;column:seq" json:"seq"`

	OriginalWhatScore    *float64 `gorm:"column:original_what_score" json:"original_what_score,omitempty"`
	OriginalHowScore     *float64 `gorm:"column:original_how_score" json:"original_how_score,omitempty"`
	OriginalGridWhat     *int     `gorm:"column:original_grid_what" json:"original_grid_what,omitempty"`
	OriginalGridHow      *int     `gorm:"column:original_grid_how" json:"original_grid_how,omitempty"`
	AdjustedWhatScore    *float64 `gorm:"column:adjusted_what_score" json:"adjusted_what_score,omitempty"`
	AdjustedHowScore     *float64 `gorm:"column:adjusted_how_score" json:"adjusted_how_score,omitempty"`
	AdjustedGridWhat     *int     `gorm:"column:adjusted_grid_what" json:"adjusted_grid_what,omitempty"`
	AdjustedGridHow      *int     `gorm:"column:adjusted_grid_how" json:"adjusted_grid_how,omitempty"`

	Rationale string `gorm:"not null;column:rationale" json:"rationale"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Adjustment) TableName() string { return "calibration_adjustment" }
