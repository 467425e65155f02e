package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/talentgrid-backend/internal/data/repos/audit"
	"github.com/yungbote/talentgrid-backend/internal/data/repos/calibration"
	"github.com/yungbote/talentgrid-backend/internal/data/repos/identity"
	"github.com/yungbote/talentgrid-backend/internal/data/repos/review"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

type UserRepo = identity.UserRepo

type ReviewRepo = review.ReviewRepo
type GoalRepo = review.GoalRepo
type CompetencyScoreRepo = review.CompetencyScoreRepo

type CalibrationSessionRepo = calibration.SessionRepo
type SessionReviewRepo = calibration.SessionReviewRepo
type ParticipantRepo = calibration.ParticipantRepo
type AdjustmentRepo = calibration.AdjustmentRepo

type AuditLogRepo = audit.LogRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return identity.NewUserRepo(db, baseLog)
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return review.NewReviewRepo(db, baseLog)
}
func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return review.NewGoalRepo(db, baseLog)
}
func NewCompetencyScoreRepo(db *gorm.DB, baseLog *logger.Logger) CompetencyScoreRepo {
	return review.NewCompetencyScoreRepo(db, baseLog)
}

func NewCalibrationSessionRepo(db *gorm.DB, baseLog *logger.Logger) CalibrationSessionRepo {
	return calibration.NewSessionRepo(db, baseLog)
}
func NewSessionReviewRepo(db *gorm.DB, baseLog *logger.Logger) SessionReviewRepo {
	return calibration.NewSessionReviewRepo(db, baseLog)
}
func NewParticipantRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantRepo {
	return calibration.NewParticipantRepo(db, baseLog)
}
func NewAdjustmentRepo(db *gorm.DB, baseLog *logger.Logger) AdjustmentRepo {
	return calibration.NewAdjustmentRepo(db, baseLog)
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return audit.NewLogRepo(db, baseLog)
}
