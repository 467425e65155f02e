package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/talentgrid-backend/internal/data/repos"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

type Repos struct {
	User            repos.UserRepo
	Review          repos.ReviewRepo
	Goal            repos.GoalRepo
	CompetencyScore repos.CompetencyScoreRepo
	Session         repos.CalibrationSessionRepo
	SessionReview   repos.SessionReviewRepo
	Participant     repos.ParticipantRepo
	Adjustment      repos.AdjustmentRepo
	AuditLog        repos.AuditLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		Review:          repos.NewReviewRepo(db, log),
		Goal:            repos.NewGoalRepo(db, log),
		CompetencyScore: repos.NewCompetencyScoreRepo(db, log),
		Session:         repos.NewCalibrationSessionRepo(db, log),
		SessionReview:   repos.NewSessionReviewRepo(db, log),
		Participant:     repos.NewParticipantRepo(db, log),
		Adjustment:      repos.NewAdjustmentRepo(db, log),
		AuditLog:        repos.NewAuditLogRepo(db, log),
	}
}
