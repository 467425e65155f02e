package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/talentgrid-backend/internal/http/response"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/services"
)

type TeamHandler struct {
	teamStatusService services.TeamStatusService
	reviewService     services.ReviewService
}

func NewTeamHandler(teamStatusService services.TeamStatusService, reviewService services.ReviewService) *TeamHandler {
	return &TeamHandler{
		teamStatusService: teamStatusService,
		reviewService:     reviewService,
	}
}

// GET /team/status?year=&stage=
func (th *TeamHandler) Status(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondServiceError(c, apierr.Validation("invalid year: %v", err))
			return
		}
		year = parsed
	}
	rows, err := th.teamStatusService.TeamStatus(c.Request.Context(), year, c.Query("stage"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"team": rows})
}

// GET /team/reviews?year=&stage=
func (th *TeamHandler) Reviews(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondServiceError(c, apierr.Validation("invalid year: %v", err))
			return
		}
		year = parsed
	}
	reviews, err := th.reviewService.ListByManager(c.Request.Context(), year, c.Query("stage"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reviews": reviews})
}

func parseUUIDField(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.Validation("invalid %s: %v", name, err)
	}
	return id, nil
}
