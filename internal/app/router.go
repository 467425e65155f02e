package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
	"github.com/yungbote/talentgrid-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:                log,
		ServiceName:        cfg.ServiceName,
		AuthMiddleware:     m.Auth,
		HealthHandler:      h.Health,
		UserHandler:        h.User,
		ReviewHandler:      h.Review,
		GoalHandler:        h.Goal,
		TeamHandler:        h.Team,
		CalibrationHandler: h.Calibration,
	})
}
