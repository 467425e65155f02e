package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/talentgrid-backend/internal/competency"
	"github.com/yungbote/talentgrid-backend/internal/data/repos"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/domain/audit"
	"github.com/yungbote/talentgrid-backend/internal/domain/review"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
	"github.com/yungbote/talentgrid-backend/internal/requestdata"
	"github.com/yungbote/talentgrid-backend/internal/scoring"
)

type CreateReviewInput struct {
	EmployeeID     uuid.UUID `json:"employee_id"`
	ManagerID      uuid.UUID `json:"manager_id"`
	Stage          string    `json:"stage"`
	ReviewYear     int       `json:"review_year"`
	FrameworkLevel string    `json:"framework_level"`
}

type UpsertCompetencyScoreInput struct {
	CompetencyID string `json:"competency_id"`
	Score        int    `json:"score"`
	Notes        string `json:"notes"`
}

type ReviewService interface {
	Create(ctx context.Context, input CreateReviewInput) (*types.Review, error)
	Get(ctx context.Context, reviewID uuid.UUID) (*types.Review, error)
	ListByManager(ctx context.Context, year int, stage string) ([]*types.Review, error)
	ListByEmployee(ctx context.Context) ([]*types.Review, error)

	Submit(ctx context.Context, reviewID uuid.UUID) (*types.Review, error)
	Sign(ctx context.Context, reviewID uuid.UUID) (*types.Review, error)
	Reject(ctx context.Context, reviewID uuid.UUID, feedback string) (*types.Review, error)
	Archive(ctx context.Context, reviewID uuid.UUID) (*types.Review, error)

	UpsertCompetencyScore(ctx context.Context, reviewID uuid.UUID, input UpsertCompetencyScoreInput) (*types.CompetencyScore, error)
	ListCompetencyScores(ctx context.Context, reviewID uuid.UUID) ([]*types.CompetencyScore, error)
	AuditTrail(ctx context.Context, reviewID uuid.UUID, limit int) ([]*types.AuditLogEntry, error)
}

type reviewService struct {
	db         *gorm.DB
	log        *logger.Logger
	reviewRepo repos.ReviewRepo
	goalRepo   repos.GoalRepo
	compRepo   repos.CompetencyScoreRepo
	userRepo   repos.UserRepo
	catalog    *competency.Catalog
	auditSvc   AuditService
}

func NewReviewService(
	db *gorm.DB,
	baseLog *logger.Logger,
	reviewRepo repos.ReviewRepo,
	goalRepo repos.GoalRepo,
	compRepo repos.CompetencyScoreRepo,
	userRepo repos.UserRepo,
	catalog *competency.Catalog,
	auditSvc AuditService,
) ReviewService {
	return &reviewService{
		db:         db,
		log:        baseLog.With("service", "ReviewService"),
		reviewRepo: reviewRepo,
		goalRepo:   goalRepo,
		compRepo:   compRepo,
		userRepo:   userRepo,
		catalog:    catalog,
		auditSvc:   auditSvc,
	}
}

func principalFrom(ctx context.Context) (*requestdata.Principal, error) {
	p := requestdata.GetPrincipal(ctx)
	if p == nil {
		return nil, apierr.Forbidden("no authenticated principal")
	}
	return p, nil
}

func (s *reviewService) Create(ctx context.Context, input CreateReviewInput) (*types.Review, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasAnyRole(types.RoleManager, types.RoleHR, types.RoleAdmin) {
		return nil, apierr.Forbidden("only managers or HR can open reviews")
	}
	if !review.ValidStage(input.Stage) {
		return nil, apierr.Validation("unknown stage %q", input.Stage)
	}
	if input.ReviewYear < 2000 {
		return nil, apierr.Validation("review_year %d out of range", input.ReviewYear)
	}
	if _, ok := s.catalog.ForLevel(input.FrameworkLevel); !ok {
		return nil, apierr.Validation("unknown framework level %q", input.FrameworkLevel)
	}
	if input.ManagerID == uuid.Nil {
		input.ManagerID = p.UserID
	}
	if input.EmployeeID == uuid.Nil {
		return nil, apierr.Validation("employee_id is required")
	}
	if input.EmployeeID == input.ManagerID {
		return nil, apierr.Validation("employee and manager must differ")
	}

	dbc := dbctx.Context{Ctx: ctx}
	for _, id := range []uuid.UUID{input.EmployeeID, input.ManagerID} {
		u, uErr := s.userRepo.GetByID(dbc, id)
		if uErr != nil {
			return nil, fmt.Errorf("load user: %w", uErr)
		}
		if u == nil || u.TenantID != p.TenantID {
			return nil, apierr.NotFound("user", id.String())
		}
	}

	rev := &types.Review{
		ID:             uuid.New(),
		TenantID:       p.TenantID,
		EmployeeID:     input.EmployeeID,
		ManagerID:      input.ManagerID,
		Stage:          input.Stage,
		Status:         types.ReviewStatusDraft,
		ReviewYear:     input.ReviewYear,
		FrameworkLevel: input.FrameworkLevel,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, cErr := s.reviewRepo.Create(txc, []*types.Review{rev}); cErr != nil {
			return fmt.Errorf("create review: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("review created", "review_id", rev.ID, "employee_id", rev.EmployeeID.String(), "stage", rev.Stage)
	return rev, nil
}

func (s *reviewService) Get(ctx context.Context, reviewID uuid.UUID) (*types.Review, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	rev, err := s.reviewRepo.GetByID(dbctx.Context{Ctx: ctx}, p.TenantID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("load review: %w", err)
	}
	if rev == nil {
		return nil, apierr.NotFound("review", reviewID.String())
	}
	if !s.canRead(p, rev) {
		return nil, apierr.Forbidden("not a participant of this review")
	}
	return rev, nil
}

func (s *reviewService) ListByManager(ctx context.Context, year int, stage string) ([]*types.Review, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasAnyRole(types.RoleManager, types.RoleHR, types.RoleAdmin) {
		return nil, apierr.Forbidden("manager role required")
	}
	if stage != "" && !review.ValidStage(stage) {
		return nil, apierr.Validation("unknown stage %q", stage)
	}
	return s.reviewRepo.ListByManager(dbctx.Context{Ctx: ctx}, p.TenantID, p.UserID, year, stage)
}

func (s *reviewService) ListByEmployee(ctx context.Context) ([]*types.Review, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByEmployee(dbctx.Context{Ctx: ctx}, p.TenantID, p.UserID)
}

// Submit moves a DRAFT review to its first pending-signature state. Goal
// setting is submitted by the employee once live goal weights reach exactly
// 100; scoring stages are submitted by the manager once every live goal and
// all six competencies carry scores, at which point the aggregate scores are
// computed and persisted in the same transaction.
func (s *reviewService) Submit(ctx context.Context, reviewID uuid.UUID) (*types.Review, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var out *types.Review
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		rev, lErr := s.reviewRepo.LockByID(txc, p.TenantID, reviewID)
		if lErr != nil {
			return fmt.Errorf("lock review: %w", lErr)
		}
		if rev == nil {
			return apierr.NotFound("review", reviewID.String())
		}
		next, ok := ResolveReviewTransition(rev, ReviewEventSubmit)
		if !ok {
			return apierr.InvalidState("review", rev.Status, string(ReviewEventSubmit))
		}

		scoringStage := review.ScoringStage(rev.Stage)
		if scoringStage && p.UserID != rev.ManagerID {
			return apierr.Forbidden("only the review's manager can submit scores")
		}
		if !scoringStage && p.UserID != rev.EmployeeID {
			return apierr.Forbidden("only the review's employee can submit goals")
		}

		liveCount, cErr := s.goalRepo.CountLiveByReviewID(txc, rev.ID)
		if cErr != nil {
			return fmt.Errorf("count goals: %w", cErr)
		}
		if liveCount == 0 {
			return apierr.Validation("review has no goals")
		}
		weightSum, wErr := s.goalRepo.SumLiveWeightByReviewID(txc, rev.ID)
		if wErr != nil {
			return fmt.Errorf("sum goal weights: %w", wErr)
		}
		if weightSum != types.RequiredWeightSum {
			return apierr.Validation("goal weights sum to %d, expected %d", weightSum, types.RequiredWeightSum)
		}

		updates := map[string]interface{}{
			"status":             next,
			"rejection_feedback": "",
		}
		action := audit.ActionGoalsSubmitted
		if scoringStage {
			action = audit.ActionScoresSubmitted
			if sErr := s.computeScores(txc, rev, updates); sErr != nil {
				return sErr
			}
		}
		if uErr := s.reviewRepo.UpdateFields(txc, rev.ID, updates); uErr != nil {
			return fmt.Errorf("update review: %w", uErr)
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     action,
			EntityType: audit.EntityReview,
			EntityID:   rev.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			Before:     map[string]any{"status": rev.Status},
			After:      map[string]any{"status": next},
		}); aErr != nil {
			return fmt.Errorf("record audit entry: %w", aErr)
		}

		out, lErr = s.reviewRepo.GetByID(txc, p.TenantID, rev.ID)
		return lErr
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("review submitted", "review_id", reviewID, "status", out.Status)
	return out, nil
}

// computeScores fills updates with the submitted scoring outcome: weighted
// WHAT score over live goals, averaged HOW score over the six competencies
// with the veto applied, and both grid positions.
func (s *reviewService) computeScores(txc dbctx.Context, rev *types.Review, updates map[string]interface{}) error {
	goals, err := s.goalRepo.ListByReviewID(txc, rev.ID)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}
	goalScores := make([]scoring.GoalScore, 0, len(goals))
	for _, g := range goals {
		goalScores = append(goalScores, scoring.GoalScore{Weight: g.Weight, Score: g.Score})
	}
	whatScore, err := scoring.WhatScore(goalScores)
	if err != nil {
		return apierr.Validation("cannot compute what score: %v", err)
	}

	comps, err := s.compRepo.ListByReviewID(txc, rev.ID)
	if err != nil {
		return fmt.Errorf("list competency scores: %w", err)
	}
	compScores := make([]int, 0, len(comps))
	for _, c := range comps {
		compScores = append(compScores, c.Score)
	}
	howScore, veto, err := scoring.FinalHowScore(compScores)
	if err != nil {
		return apierr.Validation("competency scores incomplete: %d of %d", len(compScores), scoring.CompetencyTarget)
	}

	updates["what_score"] = whatScore
	updates["how_score"] = howScore
	updates["veto_applied"] = veto
	updates["grid_position_what"] = scoring.GridPosition(whatScore)
	updates["grid_position_how"] = scoring.GridPosition(howScore)
	return nil
}

func (s *reviewService) Sign(ctx context.Context, reviewID uuid.UUID) (*types.Review, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var out *types.Review
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		rev, lErr := s.reviewRepo.LockByID(txc, p.TenantID, reviewID)
		if lErr != nil {
			return fmt.Errorf("lock review: %w", lErr)
		}
		if rev == nil {
			return apierr.NotFound("review", reviewID.String())
		}
		next, ok := ResolveReviewTransition(rev, ReviewEventSign)
		if !ok {
			return apierr.InvalidState("review", rev.Status, string(ReviewEventSign))
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{"status": next}
		var action string
		switch rev.Status {
		case types.ReviewStatusPendingEmployeeSignature:
			if p.UserID != rev.EmployeeID {
				return apierr.Forbidden("employee signature is pending, actor is not the employee")
			}
			action = audit.ActionEmployeeSigned
			updates["employee_signed_by"] = p.UserID
			updates["employee_signed_at"] = now
		case types.ReviewStatusPendingManagerSignature:
			if p.UserID != rev.ManagerID {
				return apierr.Forbidden("manager signature is pending, actor is not the manager")
			}
			action = audit.ActionManagerSigned
			updates["manager_signed_by"] = p.UserID
			updates["manager_signed_at"] = now
		}
		if next == types.ReviewStatusSigned {
			switch rev.Stage {
			case types.StageGoalSetting:
				updates["goal_setting_completed_at"] = now
			case types.StageMidYearReview:
				updates["mid_year_completed_at"] = now
			case types.StageEndYearReview:
				updates["end_year_completed_at"] = now
			}
		}

		if uErr := s.reviewRepo.UpdateFields(txc, rev.ID, updates); uErr != nil {
			return fmt.Errorf("update review: %w", uErr)
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     action,
			EntityType: audit.EntityReview,
			EntityID:   rev.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			Before:     map[string]any{"status": rev.Status},
			After:      map[string]any{"status": next},
		}); aErr != nil {
			return fmt.Errorf("record audit entry: %w", aErr)
		}

		out, lErr = s.reviewRepo.GetByID(txc, p.TenantID, rev.ID)
		return lErr
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("review signed", "review_id", reviewID, "status", out.Status)
	return out, nil
}

// Reject is taken by the party whose signature is pending and always carries
// feedback. A goal-setting rejection reopens the DRAFT; a scoring-stage
// rejection by the manager sends the review back one step to the employee.
func (s *reviewService) Reject(ctx context.Context, reviewID uuid.UUID, feedback string) (*types.Review, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if feedback == "" {
		return nil, apierr.Validation("rejection feedback is required")
	}
	if isBlank(feedback) {
		return nil, apierr.Validation("rejection feedback must not be blank")
	}

	var out *types.Review
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		rev, lErr := s.reviewRepo.LockByID(txc, p.TenantID, reviewID)
		if lErr != nil {
			return fmt.Errorf("lock review: %w", lErr)
		}
		if rev == nil {
			return apierr.NotFound("review", reviewID.String())
		}
		next, ok := ResolveReviewTransition(rev, ReviewEventReject)
		if !ok {
			return apierr.InvalidState("review", rev.Status, string(ReviewEventReject))
		}
		switch rev.Status {
		case types.ReviewStatusPendingEmployeeSignature:
			if p.UserID != rev.EmployeeID {
				return apierr.Forbidden("employee signature is pending, actor is not the employee")
			}
		case types.ReviewStatusPendingManagerSignature:
			if p.UserID != rev.ManagerID {
				return apierr.Forbidden("manager signature is pending, actor is not the manager")
			}
		}

		updates := map[string]interface{}{
			"status":             next,
			"rejection_feedback": feedback,
		}
		// Any signature collected on the path being unwound is void.
		if next == types.ReviewStatusDraft {
			updates["employee_signed_by"] = nil
			updates["employee_signed_at"] = nil
			updates["manager_signed_by"] = nil
			updates["manager_signed_at"] = nil
		} else if next == types.ReviewStatusPendingEmployeeSignature {
			updates["employee_signed_by"] = nil
			updates["employee_signed_at"] = nil
		}

		if uErr := s.reviewRepo.UpdateFields(txc, rev.ID, updates); uErr != nil {
			return fmt.Errorf("update review: %w", uErr)
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionReviewRejected,
			EntityType: audit.EntityReview,
			EntityID:   rev.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			Before:     map[string]any{"status": rev.Status},
			After:      map[string]any{"status": next, "feedback": feedback},
		}); aErr != nil {
			return fmt.Errorf("record audit entry: %w", aErr)
		}

		out, lErr = s.reviewRepo.GetByID(txc, p.TenantID, rev.ID)
		return lErr
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("review rejected", "review_id", reviewID, "status", out.Status)
	return out, nil
}

func (s *reviewService) Archive(ctx context.Context, reviewID uuid.UUID) (*types.Review, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasAnyRole(types.RoleHR, types.RoleAdmin) {
		return nil, apierr.Forbidden("HR role required to archive reviews")
	}

	var out *types.Review
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		rev, lErr := s.reviewRepo.LockByID(txc, p.TenantID, reviewID)
		if lErr != nil {
			return fmt.Errorf("lock review: %w", lErr)
		}
		if rev == nil {
			return apierr.NotFound("review", reviewID.String())
		}
		next, ok := ResolveReviewTransition(rev, ReviewEventArchive)
		if !ok {
			return apierr.InvalidState("review", rev.Status, string(ReviewEventArchive))
		}

		if uErr := s.reviewRepo.UpdateFields(txc, rev.ID, map[string]interface{}{"status": next}); uErr != nil {
			return fmt.Errorf("update review: %w", uErr)
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionReviewArchived,
			EntityType: audit.EntityReview,
			EntityID:   rev.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			Before:     map[string]any{"status": rev.Status},
			After:      map[string]any{"status": next},
		}); aErr != nil {
			return fmt.Errorf("record audit entry: %w", aErr)
		}

		out, lErr = s.reviewRepo.GetByID(txc, p.TenantID, rev.ID)
		return lErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertCompetencyScore records the manager's assessment of one framework
// competency while the scoring draft is open. The catalog bounds the set, so
// a review can never accumulate more than the six rows its level defines.
func (s *reviewService) UpsertCompetencyScore(ctx context.Context, reviewID uuid.UUID, input UpsertCompetencyScoreInput) (*types.CompetencyScore, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var out *types.CompetencyScore
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		rev, lErr := s.reviewRepo.LockByID(txc, p.TenantID, reviewID)
		if lErr != nil {
			return fmt.Errorf("lock review: %w", lErr)
		}
		if rev == nil {
			return apierr.NotFound("review", reviewID.String())
		}
		if p.UserID != rev.ManagerID {
			return apierr.Forbidden("only the review's manager can score competencies")
		}
		if !review.ScoringStage(rev.Stage) {
			return apierr.Validation("stage %s does not carry competency scores", rev.Stage)
		}
		if rev.Status != types.ReviewStatusDraft {
			return apierr.InvalidState("review", rev.Status, "score competency")
		}
		if !review.ValidScore(input.Score) {
			return apierr.Validation("score %d out of range 1..3", input.Score)
		}
		if !s.catalog.Contains(rev.FrameworkLevel, input.CompetencyID) {
			return apierr.Validation("competency %q is not part of level %s", input.CompetencyID, rev.FrameworkLevel)
		}

		var before map[string]any
		existing, eErr := s.compRepo.ListByReviewID(txc, rev.ID)
		if eErr != nil {
			return fmt.Errorf("list competency scores: %w", eErr)
		}
		for _, c := range existing {
			if c.CompetencyID == input.CompetencyID {
				before = map[string]any{"score": c.Score, "notes": c.Notes}
				break
			}
		}

		row := &types.CompetencyScore{
			TenantID:     p.TenantID,
			ReviewID:     rev.ID,
			CompetencyID: input.CompetencyID,
			Score:        input.Score,
			Notes:        input.Notes,
		}
		row, uErr := s.compRepo.Upsert(txc, row)
		if uErr != nil {
			return fmt.Errorf("upsert competency score: %w", uErr)
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionCompetencyScored,
			EntityType: audit.EntityCompetency,
			EntityID:   rev.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			Before:     before,
			After:      map[string]any{"competency_id": input.CompetencyID, "score": input.Score},
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

func (s *reviewService) ListCompetencyScores(ctx context.Context, reviewID uuid.UUID) ([]*types.CompetencyScore, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	rev, err := s.reviewRepo.GetByID(dbc, p.TenantID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("load review: %w", err)
	}
	if rev == nil {
		return nil, apierr.NotFound("review", reviewID.String())
	}
	if !s.canRead(p, rev) {
		return nil, apierr.Forbidden("not a participant of this review")
	}
	return s.compRepo.ListByReviewID(dbc, rev.ID)
}

func (s *reviewService) AuditTrail(ctx context.Context, reviewID uuid.UUID, limit int) ([]*types.AuditLogEntry, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasAnyRole(types.RoleHR, types.RoleAdmin) {
		return nil, apierr.Forbidden("HR role required to read audit history")
	}
	return s.auditSvc.ListByEntity(dbctx.Context{Ctx: ctx}, p.TenantID, audit.EntityReview, reviewID, limit)
}

func (s *reviewService) canRead(p *requestdata.Principal, rev *types.Review) bool {
	if p.HasAnyRole(types.RoleHR, types.RoleAdmin) {
		return true
	}
	return p.UserID == rev.EmployeeID || p.UserID == rev.ManagerID
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
