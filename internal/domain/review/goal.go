package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GoalTypeStandard = "STANDARD"
	GoalTypeKAR      = "KAR"
	GoalTypeSCF      = "SCF"
)

const (
	// MaxLiveGoals caps the number of non-deleted goals per review.
	MaxLiveGoals = 9
	// RequiredWeightSum is the live-goal weight total a review must reach
	// before it can be submitted.
	RequiredWeightSum = 100
)

func ValidGoalType(t string) bool {
	switch t {
	case GoalTypeStandard, GoalTypeKAR, GoalTypeSCF:
		return true
	default:
		return false
	}
}

// ValidWeight accepts 5..100 in steps of 5.
func ValidWeight(w int) bool {
	return w >= 5 && w <= 100 && w%5 == 0
}

func ValidScore(s int) bool {
	return s >= 1 && s <= 3
}

type Goal struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	ReviewID uuid.UUID `gorm:"type:uuid;not null;index;column:review_id" json:"review_id"`

	Type        string `gorm:"not null;default:'STANDARD';column:type" json:"type"`
	Title       string `gorm:"not null;column:title" json:"title"`
	Description string `gorm:"column:description" json:"description"`
	Weight      int    `gorm:"not null;column:weight" json:"weight"`
	Score       *int   `gorm:"column:score" json:"score,omitempty"`

	DisplayOrder int `gorm:"not null;default:0;column:display_order" json:"display_order"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Goal) TableName() string { return "goal" }
