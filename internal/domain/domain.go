package domain

import (
	"github.com/yungbote/talentgrid-backend/internal/domain/audit"
	"github.com/yungbote/talentgrid-backend/internal/domain/calibration"
	"github.com/yungbote/talentgrid-backend/internal/domain/identity"
	"github.com/yungbote/talentgrid-backend/internal/domain/review"
)

type User = identity.User
type Role = identity.Role

type Review = review.Review
type Goal = review.Goal
type CompetencyScore = review.CompetencyScore

type CalibrationSession = calibration.Session
type CalibrationSessionReview = calibration.SessionReview
type CalibrationParticipant = calibration.Participant
type CalibrationAdjustment = calibration.Adjustment

type AuditLogEntry = audit.LogEntry

const (
	RoleEmployee = identity.RoleEmployee
	RoleManager  = identity.RoleManager
	RoleHR       = identity.RoleHR
	RoleAdmin    = identity.RoleAdmin
)

const (
	StageGoalSetting   = review.StageGoalSetting
	StageMidYearReview = review.StageMidYearReview
	StageEndYearReview = review.StageEndYearReview

	ReviewStatusDraft                    = review.StatusDraft
	ReviewStatusPendingEmployeeSignature = review.StatusPendingEmployeeSignature
	ReviewStatusPendingManagerSignature  = review.StatusPendingManagerSignature
	ReviewStatusSigned                   = review.StatusSigned
	ReviewStatusArchived                 = review.StatusArchived

	GoalTypeStandard = review.GoalTypeStandard
	GoalTypeKAR      = review.GoalTypeKAR
	GoalTypeSCF      = review.GoalTypeSCF

	MaxLiveGoals      = review.MaxLiveGoals
	RequiredWeightSum = review.RequiredWeightSum
)

const (
	SessionStatusPreparation     = calibration.StatusPreparation
	SessionStatusInProgress      = calibration.StatusInProgress
	SessionStatusPendingApproval = calibration.StatusPendingApproval
	SessionStatusCompleted       = calibration.StatusCompleted
	SessionStatusCancelled       = calibration.StatusCancelled

	SessionScopeBusinessUnit = calibration.ScopeBusinessUnit
	SessionScopeCompanyWide  = calibration.ScopeCompanyWide

	ParticipantRoleFacilitator = calibration.ParticipantRoleFacilitator
	ParticipantRoleParticipant = calibration.ParticipantRoleParticipant
	ParticipantRoleObserver    = calibration.ParticipantRoleObserver
)
