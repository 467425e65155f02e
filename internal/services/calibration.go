package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/talentgrid-backend/internal/data/repos"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/domain/audit"
	"github.com/yungbote/talentgrid-backend/internal/domain/calibration"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
	"github.com/yungbote/talentgrid-backend/internal/requestdata"
	"github.com/yungbote/talentgrid-backend/internal/scoring"
)

type CreateSessionInput struct {
	Name          string    `json:"name"`
	Scope         string    `json:"scope"`
	FacilitatorID uuid.UUID `json:"facilitator_id"`
	Notes         string    `json:"notes"`
}

type UpsertParticipantInput struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// AdjustReviewInput carries the calibration override. A nil score field keeps
// that axis at its pre-adjustment value.
type AdjustReviewInput struct {
	WhatScore *float64 `json:"what_score,omitempty"`
	HowScore  *float64 `json:"how_score,omitempty"`
	Rationale string   `json:"rationale"`
}

type CalibrationService interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*types.CalibrationSession, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*types.CalibrationSession, error)
	ListSessions(ctx context.Context) ([]*types.CalibrationSession, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
	Transition(ctx context.Context, sessionID uuid.UUID, event SessionEvent) (*types.CalibrationSession, error)

	AddReview(ctx context.Context, sessionID, reviewID uuid.UUID) error
	ListReviewIDs(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error)
	UpsertParticipant(ctx context.Context, sessionID uuid.UUID, input UpsertParticipantInput) (*types.CalibrationParticipant, error)
	ListParticipants(ctx context.Context, sessionID uuid.UUID) ([]*types.CalibrationParticipant, error)

	AdjustReview(ctx context.Context, sessionID, reviewID uuid.UUID, input AdjustReviewInput) (*types.CalibrationAdjustment, error)
	ListAdjustments(ctx context.Context, sessionID, reviewID uuid.UUID) ([]*types.CalibrationAdjustment, error)
}

type calibrationService struct {
	db              *gorm.DB
	log             *logger.Logger
	sessionRepo     repos.CalibrationSessionRepo
	sessionReviews  repos.SessionReviewRepo
	participantRepo repos.ParticipantRepo
	adjustmentRepo  repos.AdjustmentRepo
	reviewRepo      repos.ReviewRepo
	userRepo        repos.UserRepo
	auditSvc        AuditService
}

func NewCalibrationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessionRepo repos.CalibrationSessionRepo,
	sessionReviews repos.SessionReviewRepo,
	participantRepo repos.ParticipantRepo,
	adjustmentRepo repos.AdjustmentRepo,
	reviewRepo repos.ReviewRepo,
	userRepo repos.UserRepo,
	auditSvc AuditService,
) CalibrationService {
	return &calibrationService{
		db:              db,
		log:             baseLog.With("service", "CalibrationService"),
		sessionRepo:     sessionRepo,
		sessionReviews:  sessionReviews,
		participantRepo: participantRepo,
		adjustmentRepo:  adjustmentRepo,
		reviewRepo:      reviewRepo,
		userRepo:        userRepo,
		auditSvc:        auditSvc,
	}
}

func requireHR(ctx context.Context) (*requestdata.Principal, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasAnyRole(types.RoleHR, types.RoleAdmin) {
		return nil, apierr.Forbidden("HR role required for calibration")
	}
	return p, nil
}

func (s *calibrationService) CreateSession(ctx context.Context, input CreateSessionInput) (*types.CalibrationSession, error) {
	p, err := requireHR(ctx)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apierr.Validation("session name is required")
	}
	if !calibration.ValidScope(input.Scope) {
		return nil, apierr.Validation("unknown session scope %q", input.Scope)
	}
	if input.FacilitatorID == uuid.Nil {
		input.FacilitatorID = p.UserID
	}

	session := &types.CalibrationSession{
		ID:            uuid.New(),
		TenantID:      p.TenantID,
		Name:          input.Name,
		Scope:         input.Scope,
		Status:        types.SessionStatusPreparation,
		FacilitatorID: input.FacilitatorID,
		Notes:         input.Notes,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, cErr := s.sessionRepo.Create(txc, []*types.CalibrationSession{session}); cErr != nil {
			return fmt.Errorf("create session: %w", cErr)
		}
		if _, pErr := s.participantRepo.Upsert(txc, &types.CalibrationParticipant{
			TenantID:  p.TenantID,
			SessionID: session.ID,
			UserID:    session.FacilitatorID,
			Role:      types.ParticipantRoleFacilitator,
		}); pErr != nil {
			return fmt.Errorf("add facilitator: %w", pErr)
		}
		return s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionSessionCreated,
			EntityType: audit.EntitySession,
			EntityID:   session.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			After:      map[string]any{"name": session.Name, "scope": session.Scope, "status": session.Status},
		})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("calibration session created", "session_id", session.ID, "scope", session.Scope)
	return session, nil
}

func (s *calibrationService) GetSession(ctx context.Context, sessionID uuid.UUID) (*types.CalibrationSession, error) {
	p, err := requireHR(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(dbctx.Context{Ctx: ctx}, p.TenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, apierr.NotFound("calibration session", sessionID.String())
	}
	return session, nil
}

func (s *calibrationService) ListSessions(ctx context.Context) ([]*types.CalibrationSession, error) {
	p, err := requireHR(ctx)
	if err != nil {
		return nil, err
	}
	return s.sessionRepo.ListByTenant(dbctx.Context{Ctx: ctx}, p.TenantID)
}

// DeleteSession hard-deletes a session and its membership rows, allowed only
// while the session is still in PREPARATION.
func (s *calibrationService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	p, err := requireHR(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		session, lErr := s.sessionRepo.LockByID(txc, p.TenantID, sessionID)
		if lErr != nil {
			return fmt.Errorf("lock session: %w", lErr)
		}
		if session == nil {
			return apierr.NotFound("calibration session", sessionID.String())
		}
		if session.Status != types.SessionStatusPreparation {
			return apierr.InvalidState("calibration session", session.Status, "delete")
		}
		if dErr := s.sessionRepo.Delete(txc, session.ID); dErr != nil {
			return fmt.Errorf("delete session: %w", dErr)
		}
		return s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionSessionDeleted,
			EntityType: audit.EntitySession,
			EntityID:   session.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			Before:     map[string]any{"name": session.Name, "status": session.Status},
		})
	})
}

func (s *calibrationService) Transition(ctx context.Context, sessionID uuid.UUID, event SessionEvent) (*types.CalibrationSession, error) {
	p, err := requireHR(ctx)
	if err != nil {
		return nil, err
	}
	if !ValidSessionEvent(event) {
		return nil, apierr.Validation("unknown session event %q", event)
	}

	var out *types.CalibrationSession
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		session, lErr := s.sessionRepo.LockByID(txc, p.TenantID, sessionID)
		if lErr != nil {
			return fmt.Errorf("lock session: %w", lErr)
		}
		if session == nil {
			return apierr.NotFound("calibration session", sessionID.String())
		}
		next, ok := ResolveSessionTransition(session.Status, event)
		if !ok {
			return apierr.InvalidState("calibration session", session.Status, string(event))
		}
		if uErr := s.sessionRepo.UpdateFields(txc, session.ID, map[string]interface{}{"status": next}); uErr != nil {
			return fmt.Errorf("update session: %w", uErr)
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionSessionStatusChanged,
			EntityType: audit.EntitySession,
			EntityID:   session.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			Before:     map[string]any{"status": session.Status},
			After:      map[string]any{"status": next, "event": string(event)},
		}); aErr != nil {
			return fmt.Errorf("record audit entry: %w", aErr)
		}
		out, lErr = s.sessionRepo.GetByID(txc, p.TenantID, session.ID)
		return lErr
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("calibration session transitioned", "session_id", sessionID, "status", out.Status)
	return out, nil
}

// AddReview puts a SIGNED review into the session's membership. Adding a
// review that is already a member is a no-op.
func (s *calibrationService) AddReview(ctx context.Context, sessionID, reviewID uuid.UUID) error {
	p, err := requireHR(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		session, lErr := s.sessionRepo.LockByID(txc, p.TenantID, sessionID)
		if lErr != nil {
			return fmt.Errorf("lock session: %w", lErr)
		}
		if session == nil {
			return apierr.NotFound("calibration session", sessionID.String())
		}
		if calibration.TerminalStatus(session.Status) {
			return apierr.InvalidState("calibration session", session.Status, "add review")
		}
		rev, rErr := s.reviewRepo.GetByID(txc, p.TenantID, reviewID)
		if rErr != nil {
			return fmt.Errorf("load review: %w", rErr)
		}
		if rev == nil {
			return apierr.NotFound("review", reviewID.String())
		}
		if rev.Status != types.ReviewStatusSigned {
			return apierr.Validation("only signed reviews enter calibration, review is %s", rev.Status)
		}

		exists, eErr := s.sessionReviews.Exists(txc, session.ID, rev.ID)
		if eErr != nil {
			return fmt.Errorf("check membership: %w", eErr)
		}
		if exists {
			return nil
		}
		if aErr := s.sessionReviews.Add(txc, &types.CalibrationSessionReview{
			TenantID:  p.TenantID,
			SessionID: session.ID,
			ReviewID:  rev.ID,
		}); aErr != nil {
			return fmt.Errorf("add session review: %w", aErr)
		}
		return s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionSessionReviewAdded,
			EntityType: audit.EntitySession,
			EntityID:   session.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			After:      map[string]any{"review_id": rev.ID},
		})
	})
}

func (s *calibrationService) ListReviewIDs(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	p, err := requireHR(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	session, err := s.sessionRepo.GetByID(dbc, p.TenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, apierr.NotFound("calibration session", sessionID.String())
	}
	return s.sessionReviews.ListReviewIDs(dbc, session.ID)
}

func (s *calibrationService) UpsertParticipant(ctx context.Context, sessionID uuid.UUID, input UpsertParticipantInput) (*types.CalibrationParticipant, error) {
	p, err := requireHR(ctx)
	if err != nil {
		return nil, err
	}
	if !calibration.ValidParticipantRole(input.Role) {
		return nil, apierr.Validation("unknown participant role %q", input.Role)
	}

	var out *types.CalibrationParticipant
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		session, lErr := s.sessionRepo.LockByID(txc, p.TenantID, sessionID)
		if lErr != nil {
			return fmt.Errorf("lock session: %w", lErr)
		}
		if session == nil {
			return apierr.NotFound("calibration session", sessionID.String())
		}
		if calibration.TerminalStatus(session.Status) {
			return apierr.InvalidState("calibration session", session.Status, "add participant")
		}
		user, uErr := s.userRepo.GetByID(txc, input.UserID)
		if uErr != nil {
			return fmt.Errorf("load user: %w", uErr)
		}
		if user == nil || user.TenantID != p.TenantID {
			return apierr.NotFound("user", input.UserID.String())
		}

		row, pErr := s.participantRepo.Upsert(txc, &types.CalibrationParticipant{
			TenantID:  p.TenantID,
			SessionID: session.ID,
			UserID:    input.UserID,
			Role:      input.Role,
		})
		if pErr != nil {
			return fmt.Errorf("upsert participant: %w", pErr)
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionParticipantUpserted,
			EntityType: audit.EntityParticipant,
			EntityID:   session.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			After:      map[string]any{"user_id": input.UserID, "role": input.Role},
		}); aErr != nil {
			return fmt.Errorf("record audit entry: %w", aErr)
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *calibrationService) ListParticipants(ctx context.Context, sessionID uuid.UUID) ([]*types.CalibrationParticipant, error) {
	p, err := requireHR(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	session, err := s.sessionRepo.GetByID(dbc, p.TenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, apierr.NotFound("calibration session", sessionID.String())
	}
	return s.participantRepo.ListBySessionID(dbc, session.ID)
}

// AdjustReview overrides a member review's calibrated scores. The review's
// current values are snapshotted as "original", any omitted axis keeps its
// original value, grid positions are recomputed from the resulting scores and
// one immutable adjustment row records the whole override. Session lock is
// taken before the review lock; every writer orders the two the same way.
func (s *calibrationService) AdjustReview(ctx context.Context, sessionID, reviewID uuid.UUID, input AdjustReviewInput) (*types.CalibrationAdjustment, error) {
	p, err := requireHR(ctx)
	if err != nil {
		return nil, err
	}
	if input.Rationale == "" || isBlank(input.Rationale) {
		return nil, apierr.Validation("adjustment rationale is required")
	}
	if input.WhatScore == nil && input.HowScore == nil {
		return nil, apierr.Validation("adjustment must change at least one score")
	}
	for _, v := range []*float64{input.WhatScore, input.HowScore} {
		if v != nil && (*v < 1.0 || *v > 3.0) {
			return nil, apierr.Validation("score %.2f out of range 1.00..3.00", *v)
		}
	}

	var out *types.CalibrationAdjustment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		session, lErr := s.sessionRepo.LockByID(txc, p.TenantID, sessionID)
		if lErr != nil {
			return fmt.Errorf("lock session: %w", lErr)
		}
		if session == nil {
			return apierr.NotFound("calibration session", sessionID.String())
		}
		if session.Status != types.SessionStatusInProgress {
			return apierr.InvalidState("calibration session", session.Status, "adjust review")
		}
		member, mErr := s.sessionReviews.Exists(txc, session.ID, reviewID)
		if mErr != nil {
			return fmt.Errorf("check membership: %w", mErr)
		}
		if !member {
			return apierr.NotFound("session review", reviewID.String())
		}
		rev, rErr := s.reviewRepo.LockByID(txc, p.TenantID, reviewID)
		if rErr != nil {
			return fmt.Errorf("lock review: %w", rErr)
		}
		if rev == nil {
			return apierr.NotFound("review", reviewID.String())
		}

		adjustedWhat := rev.WhatScore
		adjustedHow := rev.HowScore
		if input.WhatScore != nil {
			v := scoring.Round2(*input.WhatScore)
			adjustedWhat = &v
		}
		if input.HowScore != nil {
			v := scoring.Round2(*input.HowScore)
			adjustedHow = &v
		}
		adjustedGridWhat := gridOf(adjustedWhat)
		adjustedGridHow := gridOf(adjustedHow)

		maxSeq, sErr := s.adjustmentRepo.GetMaxSeq(txc, session.ID, rev.ID)
		if sErr != nil {
			return fmt.Errorf("max adjustment seq: %w", sErr)
		}
		adj := &types.CalibrationAdjustment{
			ID:                uuid.New(),
			TenantID:          p.TenantID,
			SessionID:         session.ID,
			ReviewID:          rev.ID,
			AdjustedBy:        p.UserID,
			Seq:               maxSeq + 1,
			OriginalWhatScore: rev.WhatScore,
			OriginalHowScore:  rev.HowScore,
			OriginalGridWhat:  rev.GridPositionWhat,
			OriginalGridHow:   rev.GridPositionHow,
			AdjustedWhatScore: adjustedWhat,
			AdjustedHowScore:  adjustedHow,
			AdjustedGridWhat:  adjustedGridWhat,
			AdjustedGridHow:   adjustedGridHow,
			Rationale:         input.Rationale,
		}
		adj, aErr := s.adjustmentRepo.Create(txc, adj)
		if aErr != nil {
			return fmt.Errorf("create adjustment: %w", aErr)
		}

		if uErr := s.reviewRepo.UpdateFields(txc, rev.ID, map[string]interface{}{
			"what_score":         adjustedWhat,
			"how_score":          adjustedHow,
			"grid_position_what": adjustedGridWhat,
			"grid_position_how":  adjustedGridHow,
		}); uErr != nil {
			return fmt.Errorf("apply adjustment to review: %w", uErr)
		}

		if recErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionReviewAdjusted,
			EntityType: audit.EntityReview,
			EntityID:   rev.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			Before:     map[string]any{"what_score": rev.WhatScore, "how_score": rev.HowScore},
			After:      map[string]any{"what_score": adjustedWhat, "how_score": adjustedHow, "session_id": session.ID, "seq": adj.Seq},
		}); recErr != nil {
			return fmt.Errorf("record audit entry: %w", recErr)
		}
		out = adj
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("review adjusted", "session_id", sessionID, "review_id", reviewID, "seq", out.Seq)
	return out, nil
}

func (s *calibrationService) ListAdjustments(ctx context.Context, sessionID, reviewID uuid.UUID) ([]*types.CalibrationAdjustment, error) {
	p, err := requireHR(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	session, err := s.sessionRepo.GetByID(dbc, p.TenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, apierr.NotFound("calibration session", sessionID.String())
	}
	return s.adjustmentRepo.ListBySessionAndReview(dbc, session.ID, reviewID)
}

func gridOf(score *float64) *int {
	if score == nil {
		return nil
	}
	g := scoring.GridPosition(*score)
	return &g
}
