package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/talentgrid-backend/internal/http/response"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/services"
)

type GoalHandler struct {
	goalService services.GoalService
}

func NewGoalHandler(goalService services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// POST /reviews/:id/goals
func (gh *GoalHandler) Add(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.AddGoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	goal, err := gh.goalService.Add(c.Request.Context(), reviewID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"goal": goal})
}

// PATCH /reviews/:id/goals/:goalID
func (gh *GoalHandler) Update(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	goalID, ok := pathID(c, "goalID")
	if !ok {
		return
	}
	var req services.UpdateGoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	goal, err := gh.goalService.Update(c.Request.Context(), reviewID, goalID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goal": goal})
}

// DELETE /reviews/:id/goals/:goalID
func (gh *GoalHandler) Delete(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	goalID, ok := pathID(c, "goalID")
	if !ok {
		return
	}
	if err := gh.goalService.Delete(c.Request.Context(), reviewID, goalID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /reviews/:id/goals/order
// body: { "order": ["<goal-id>", ...] }; must name every live goal once.
func (gh *GoalHandler) Reorder(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Order []uuid.UUID `json:"order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	goals, err := gh.goalService.Reorder(c.Request.Context(), reviewID, req.Order)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goals": goals})
}

// GET /reviews/:id/goals
func (gh *GoalHandler) List(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	goals, err := gh.goalService.List(c.Request.Context(), reviewID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goals": goals})
}
