package app

import (
	"github.com/yungbote/talentgrid-backend/internal/http/handlers"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	User        *handlers.UserHandler
	Review      *handlers.ReviewHandler
	Goal        *handlers.GoalHandler
	Team        *handlers.TeamHandler
	Calibration *handlers.CalibrationHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      handlers.NewHealthHandler(),
		User:        handlers.NewUserHandler(s.User),
		Review:      handlers.NewReviewHandler(s.Review),
		Goal:        handlers.NewGoalHandler(s.Goal),
		Team:        handlers.NewTeamHandler(s.TeamStatus, s.Review),
		Calibration: handlers.NewCalibrationHandler(s.Calibration),
	}
}
