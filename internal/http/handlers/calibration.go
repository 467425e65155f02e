package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/talentgrid-backend/internal/http/response"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/services"
)

type CalibrationHandler struct {
	calibrationService services.CalibrationService
}

func NewCalibrationHandler(calibrationService services.CalibrationService) *CalibrationHandler {
	return &CalibrationHandler{calibrationService: calibrationService}
}

// POST /calibration/sessions
func (ch *CalibrationHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	session, err := ch.calibrationService.CreateSession(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": session})
}

// GET /calibration/sessions
func (ch *CalibrationHandler) ListSessions(c *gin.Context) {
	sessions, err := ch.calibrationService.ListSessions(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}

// GET /calibration/sessions/:id
func (ch *CalibrationHandler) GetSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	session, err := ch.calibrationService.GetSession(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// DELETE /calibration/sessions/:id
func (ch *CalibrationHandler) DeleteSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ch.calibrationService.DeleteSession(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /calibration/sessions/:id/transition
// body: { "event": "START" | "REQUEST_APPROVAL" | "REOPEN" | "COMPLETE" | "CANCEL" }
func (ch *CalibrationHandler) Transition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Event string `json:"event"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	session, err := ch.calibrationService.Transition(c.Request.Context(), id, services.SessionEvent(req.Event))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// POST /calibration/sessions/:id/reviews
// body: { "review_id": "..." }
func (ch *CalibrationHandler) AddReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ReviewID string `json:"review_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	reviewID, err := parseUUIDField("review_id", req.ReviewID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if err := ch.calibrationService.AddReview(c.Request.Context(), id, reviewID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /calibration/sessions/:id/reviews
func (ch *CalibrationHandler) ListReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ids, err := ch.calibrationService.ListReviewIDs(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"review_ids": ids})
}

// PUT /calibration/sessions/:id/participants
func (ch *CalibrationHandler) UpsertParticipant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpsertParticipantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	row, err := ch.calibrationService.UpsertParticipant(c.Request.Context(), id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"participant": row})
}

// GET /calibration/sessions/:id/participants
func (ch *CalibrationHandler) ListParticipants(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := ch.calibrationService.ListParticipants(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"participants": rows})
}

// POST /calibration/sessions/:id/reviews/:reviewID/adjust
func (ch *CalibrationHandler) AdjustReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "reviewID")
	if !ok {
		return
	}
	var req services.AdjustReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	adj, err := ch.calibrationService.AdjustReview(c.Request.Context(), id, reviewID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"adjustment": adj})
}

// GET /calibration/sessions/:id/reviews/:reviewID/adjustments
func (ch *CalibrationHandler) ListAdjustments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "reviewID")
	if !ok {
		return
	}
	rows, err := ch.calibrationService.ListAdjustments(c.Request.Context(), id, reviewID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"adjustments": rows})
}
