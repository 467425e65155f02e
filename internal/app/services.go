package app

import (
	"fmt"

	"gorm.io/gorm"

	redisclient "github.com/yungbote/talentgrid-backend/internal/clients/redis"
	"github.com/yungbote/talentgrid-backend/internal/competency"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
	"github.com/yungbote/talentgrid-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Audit       services.AuditService
	Review      services.ReviewService
	Goal        services.GoalService
	TeamStatus  services.TeamStatusService
	Calibration services.CalibrationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, cache redisclient.PrincipalCache) (Services, error) {
	log.Info("Wiring services...")

	catalog, err := competency.Default()
	if err != nil {
		return Services{}, fmt.Errorf("load competency catalog: %w", err)
	}

	auditSvc := services.NewAuditService(db, log, r.AuditLog)
	authSvc := services.NewAuthService(db, log, r.User, cache, cfg.JWTSecretKey)

	return Services{
		Auth:       authSvc,
		User:       services.NewUserService(db, log, r.User, authSvc),
		Audit:      auditSvc,
		Review:     services.NewReviewService(db, log, r.Review, r.Goal, r.CompetencyScore, r.User, catalog, auditSvc),
		Goal:       services.NewGoalService(db, log, r.Review, r.Goal, auditSvc),
		TeamStatus: services.NewTeamStatusService(db, log, r.Review, r.Goal, r.CompetencyScore, r.User),
		Calibration: services.NewCalibrationService(
			db, log,
			r.Session, r.SessionReview, r.Participant, r.Adjustment,
			r.Review, r.User,
			auditSvc,
		),
	}, nil
}
