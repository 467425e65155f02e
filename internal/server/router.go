package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/http/handlers"
	"github.com/yungbote/talentgrid-backend/internal/http/middleware"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log                *logger.Logger
	ServiceName        string
	AuthMiddleware     *middleware.AuthMiddleware
	HealthHandler      *handlers.HealthHandler
	UserHandler        *handlers.UserHandler
	ReviewHandler      *handlers.ReviewHandler
	GoalHandler        *handlers.GoalHandler
	TeamHandler        *handlers.TeamHandler
	CalibrationHandler *handlers.CalibrationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.GET("/me", cfg.UserHandler.GetMe)

	// Reviews
	protected.POST("/reviews", cfg.ReviewHandler.Create)
	protected.GET("/reviews", cfg.ReviewHandler.ListMine)
	protected.GET("/reviews/:id", cfg.ReviewHandler.Get)
	protected.POST("/reviews/:id/submit", cfg.ReviewHandler.Submit)
	protected.POST("/reviews/:id/sign", cfg.ReviewHandler.Sign)
	protected.POST("/reviews/:id/reject", cfg.ReviewHandler.Reject)
	protected.POST("/reviews/:id/archive", cfg.ReviewHandler.Archive)
	protected.GET("/reviews/:id/competencies", cfg.ReviewHandler.ListCompetencyScores)
	protected.PUT("/reviews/:id/competencies", cfg.ReviewHandler.UpsertCompetencyScore)
	protected.GET("/reviews/:id/audit", cfg.ReviewHandler.AuditTrail)

	// Goals
	protected.GET("/reviews/:id/goals", cfg.GoalHandler.List)
	protected.POST("/reviews/:id/goals", cfg.GoalHandler.Add)
	protected.PUT("/reviews/:id/goals/order", cfg.GoalHandler.Reorder)
	protected.PATCH("/reviews/:id/goals/:goalID", cfg.GoalHandler.Update)
	protected.DELETE("/reviews/:id/goals/:goalID", cfg.GoalHandler.Delete)

	// Manager dashboard
	team := protected.Group("/team")
	team.Use(cfg.AuthMiddleware.RequireRole(types.RoleManager, types.RoleHR, types.RoleAdmin))
	team.GET("/status", cfg.TeamHandler.Status)
	team.GET("/reviews", cfg.TeamHandler.Reviews)

	// Calibration, HR only
	calibration := protected.Group("/calibration")
	calibration.Use(cfg.AuthMiddleware.RequireRole(types.RoleHR, types.RoleAdmin))
	calibration.POST("/sessions", cfg.CalibrationHandler.CreateSession)
	calibration.GET("/sessions", cfg.CalibrationHandler.ListSessions)
	calibration.GET("/sessions/:id", cfg.CalibrationHandler.GetSession)
	calibration.DELETE("/sessions/:id", cfg.CalibrationHandler.DeleteSession)
	calibration.POST("/sessions/:id/transition", cfg.CalibrationHandler.Transition)
	calibration.GET("/sessions/:id/reviews", cfg.CalibrationHandler.ListReviews)
	calibration.POST("/sessions/:id/reviews", cfg.CalibrationHandler.AddReview)
	calibration.GET("/sessions/:id/participants", cfg.CalibrationHandler.ListParticipants)
	calibration.PUT("/sessions/:id/participants", cfg.CalibrationHandler.UpsertParticipant)
	calibration.POST("/sessions/:id/reviews/:reviewID/adjust", cfg.CalibrationHandler.AdjustReview)
	calibration.GET("/sessions/:id/reviews/:reviewID/adjustments", cfg.CalibrationHandler.ListAdjustments)

	// Admin
	admin := protected.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireRole(types.RoleHR, types.RoleAdmin))
	admin.POST("/users", cfg.UserHandler.Provision)

	return router
}
