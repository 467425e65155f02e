package review

import (
	"time"

	"github.com/google/uuid"
)

const (
	StageGoalSetting   = "GOAL_SETTING"
	StageMidYearReview = "MID_YEAR_REVIEW"
	StageEndYearReview = "END_YEAR_REVIEW"
)

const (
	StatusDraft                    = "DRAFT"
	StatusPendingEmployeeSignature = "PENDING_EMPLOYEE_SIGNATURE"
	StatusPendingManagerSignature  = "PENDING_MANAGER_SIGNATURE"
	StatusSigned                   = "SIGNED"
	StatusArchived                 = "ARCHIVED"
)

func ValidStage(stage string) bool {
	switch stage {
	case StageGoalSetting, StageMidYearReview, StageEndYearReview:
		return true
	default:
		return false
	}
}

// ScoringStage reports whether the stage carries goal and competency scores.
// Goal setting only fixes weights.
func ScoringStage(stage string) bool {
	return stage == StageMidYearReview || stage == StageEndYearReview
}

// Review rows are never hard-deleted; ARCHIVED is the terminal status that
// stands in for deletion.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index;column:employee_id" json:"employee_id"`
	ManagerID  uuid.UUID `gorm:"type:uuid;not null;index;column:manager_id" json:"manager_id"`

	Stage      string `gorm:"not null;column:stage" json:"stage"`
	Status     string `gorm:"not null;default:'DRAFT';column:status" json:"status"`
	ReviewYear int    `gorm:"not null;column:review_year" json:"review_year"`

	// TOV level deciding which six competencies apply.
	FrameworkLevel string `gorm:"not null;column:framework_level" json:"framework_level"`

	WhatScore        *float64 `gorm:"column:what_score" json:"what_score,omitempty"`
	HowScore         *float64 `gorm:"column:how_score" json:"how_score,omitempty"`
	GridPositionWhat *int     `gorm:"column:grid_position_what" json:"grid_position_what,omitempty"`
	GridPositionHow  *int     `gorm:"column:grid_position_how" json:"grid_position_how,omitempty"`
	VetoApplied      bool     `gorm:"not null;default:false;column:veto_applied" json:"veto_applied"`

	EmployeeSignedBy *uuid.UUID `gorm:"type:uuid;column:employee_signed_by" json:"employee_signed_by,omitempty"`
	EmployeeSignedAt *time.Time `gorm:"column:employee_signed_at" json:"employee_signed_at,omitempty"`
	ManagerSignedBy  *uuid.UUID `gorm:"type:uuid;column:manager_signed_by" json:"manager_signed_by,omitempty"`
	ManagerSignedAt  *time.Time `gorm:"column:manager_signed_at" json:"manager_signed_at,omitempty"`

	GoalSettingCompletedAt *time.Time `gorm:"column:goal_setting_completed_at" json:"goal_setting_completed_at,omitempty"`
	MidYearCompletedAt     *time.Time `gorm:"column:mid_year_completed_at" json:"mid_year_completed_at,omitempty"`
	EndYearCompletedAt     *time.Time `gorm:"column:end_year_completed_at" json:"end_year_completed_at,omitempty"`

	RejectionFeedback string `gorm:"column:rejection_feedback" json:"rejection_feedback,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Review) TableName() string { return "review" }
