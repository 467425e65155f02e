package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/talentgrid-backend/internal/http/response"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.Me(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// POST /admin/users
func (uh *UserHandler) Provision(c *gin.Context) {
	var req services.ProvisionUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	user, err := uh.userService.Provision(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}
