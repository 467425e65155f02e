package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/talentgrid-backend/internal/http/response"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid %s: %v", name, err))
		return uuid.Nil, false
	}
	return id, true
}

// POST /reviews
func (rh *ReviewHandler) Create(c *gin.Context) {
	var req services.CreateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	rev, err := rh.reviewService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"review": rev})
}

// GET /reviews/:id
func (rh *ReviewHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rev, err := rh.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"review": rev})
}

// GET /reviews?year=&stage=
func (rh *ReviewHandler) ListMine(c *gin.Context) {
	reviews, err := rh.reviewService.ListByEmployee(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reviews": reviews})
}

// POST /reviews/:id/submit
func (rh *ReviewHandler) Submit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rev, err := rh.reviewService.Submit(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"review": rev})
}

// POST /reviews/:id/sign
func (rh *ReviewHandler) Sign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rev, err := rh.reviewService.Sign(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"review": rev})
}

// POST /reviews/:id/reject
// body: { "feedback": "..." }
func (rh *ReviewHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	rev, err := rh.reviewService.Reject(c.Request.Context(), id, req.Feedback)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"review": rev})
}

// POST /reviews/:id/archive
func (rh *ReviewHandler) Archive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rev, err := rh.reviewService.Archive(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"review": rev})
}

// PUT /reviews/:id/competencies
func (rh *ReviewHandler) UpsertCompetencyScore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpsertCompetencyScoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	row, err := rh.reviewService.UpsertCompetencyScore(c.Request.Context(), id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"competency_score": row})
}

// GET /reviews/:id/competencies
func (rh *ReviewHandler) ListCompetencyScores(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := rh.reviewService.ListCompetencyScores(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"competency_scores": rows})
}

// GET /reviews/:id/audit
func (rh *ReviewHandler) AuditTrail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := rh.reviewService.AuditTrail(c.Request.Context(), id, 0)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"audit": rows})
}
