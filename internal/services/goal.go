package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/talentgrid-backend/internal/data/repos"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/domain/audit"
	"github.com/yungbote/talentgrid-backend/internal/domain/review"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
	"github.com/yungbote/talentgrid-backend/internal/requestdata"
)

type AddGoalInput struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Weight      int    `json:"weight"`
}

// UpdateGoalInput is a partial patch; nil fields are left untouched. Which
// fields a patch may carry depends on the review's stage: goal setting allows
// shape edits, scoring stages allow only the score.
type UpdateGoalInput struct {
	Type        *string `json:"type,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Weight      *int    `json:"weight,omitempty"`
	Score       *int    `json:"score,omitempty"`
}

type GoalService interface {
	Add(ctx context.Context, reviewID uuid.UUID, input AddGoalInput) (*types.Goal, error)
	Update(ctx context.Context, reviewID, goalID uuid.UUID, input UpdateGoalInput) (*types.Goal, error)
	Delete(ctx context.Context, reviewID, goalID uuid.UUID) error
	Reorder(ctx context.Context, reviewID uuid.UUID, orderedIDs []uuid.UUID) ([]*types.Goal, error)
	List(ctx context.Context, reviewID uuid.UUID) ([]*types.Goal, error)
}

type goalService struct {
	db         *gorm.DB
	log        *logger.Logger
	reviewRepo repos.ReviewRepo
	goalRepo   repos.GoalRepo
	auditSvc   AuditService
}

func NewGoalService(
	db *gorm.DB,
	baseLog *logger.Logger,
	reviewRepo repos.ReviewRepo,
	goalRepo repos.GoalRepo,
	auditSvc AuditService,
) GoalService {
	return &goalService{
		db:         db,
		log:        baseLog.With("service", "GoalService"),
		reviewRepo: reviewRepo,
		goalRepo:   goalRepo,
		auditSvc:   auditSvc,
	}
}

// lockDraft locks the review row and checks the goal mutation preconditions
// shared by every write: the review exists in the caller's tenant and its
// status is DRAFT. Goal rows only change while a draft is open.
func (s *goalService) lockDraft(txc dbctx.Context, p *requestdata.Principal, reviewID uuid.UUID) (*types.Review, error) {
	rev, err := s.reviewRepo.LockByID(txc, p.TenantID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("lock review: %w", err)
	}
	if rev == nil {
		return nil, apierr.NotFound("review", reviewID.String())
	}
	if rev.Status != types.ReviewStatusDraft {
		return nil, apierr.InvalidState("review", rev.Status, "modify goals")
	}
	return rev, nil
}

func (s *goalService) Add(ctx context.Context, reviewID uuid.UUID, input AddGoalInput) (*types.Goal, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if input.Type == "" {
		input.Type = types.GoalTypeStandard
	}
	if !review.ValidGoalType(input.Type) {
		return nil, apierr.Validation("unknown goal type %q", input.Type)
	}
	if input.Title == "" {
		return nil, apierr.Validation("goal title is required")
	}
	if !review.ValidWeight(input.Weight) {
		return nil, apierr.Validation("weight %d must be a multiple of 5 between 5 and 100", input.Weight)
	}

	var out *types.Goal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		rev, lErr := s.lockDraft(txc, p, reviewID)
		if lErr != nil {
			return lErr
		}
		if p.UserID != rev.EmployeeID {
			return apierr.Forbidden("only the review's employee can add goals")
		}

		liveCount, cErr := s.goalRepo.CountLiveByReviewID(txc, rev.ID)
		if cErr != nil {
			return fmt.Errorf("count goals: %w", cErr)
		}
		if liveCount >= types.MaxLiveGoals {
			return apierr.Validation("review already has %d goals, the maximum", types.MaxLiveGoals)
		}
		maxOrder, mErr := s.goalRepo.MaxDisplayOrder(txc, rev.ID)
		if mErr != nil {
			return fmt.Errorf("max display order: %w", mErr)
		}

		goal := &types.Goal{
			ID:           uuid.New(),
			TenantID:     p.TenantID,
			ReviewID:     rev.ID,
			Type:         input.Type,
			Title:        input.Title,
			Description:  input.Description,
			Weight:       input.Weight,
			DisplayOrder: maxOrder + 1,
		}
		if _, gErr := s.goalRepo.Create(txc, []*types.Goal{goal}); gErr != nil {
			return fmt.Errorf("create goal: %w", gErr)
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionGoalCreated,
			EntityType: audit.EntityGoal,
			EntityID:   goal.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			After:      map[string]any{"title": goal.Title, "weight": goal.Weight, "type": goal.Type},
		}); aErr != nil {
			return fmt.Errorf("record audit entry: %w", aErr)
		}
		out = goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("goal added", "review_id", reviewID, "goal_id", out.ID)
	return out, nil
}

func (s *goalService) Update(ctx context.Context, reviewID, goalID uuid.UUID, input UpdateGoalInput) (*types.Goal, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var out *types.Goal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		rev, lErr := s.lockDraft(txc, p, reviewID)
		if lErr != nil {
			return lErr
		}
		goal, gErr := s.goalRepo.GetByID(txc, p.TenantID, goalID)
		if gErr != nil {
			return fmt.Errorf("load goal: %w", gErr)
		}
		if goal == nil || goal.ReviewID != rev.ID {
			return apierr.NotFound("goal", goalID.String())
		}

		updates := map[string]interface{}{}
		if review.ScoringStage(rev.Stage) {
			if p.UserID != rev.ManagerID {
				return apierr.Forbidden("only the review's manager can score goals")
			}
			if input.Type != nil || input.Title != nil || input.Description != nil || input.Weight != nil {
				return apierr.Validation("only the score can change during %s", rev.Stage)
			}
			if input.Score == nil {
				return apierr.Validation("score is required")
			}
			if !review.ValidScore(*input.Score) {
				return apierr.Validation("score %d out of range 1..3", *input.Score)
			}
			updates["score"] = *input.Score
		} else {
			if p.UserID != rev.EmployeeID {
				return apierr.Forbidden("only the review's employee can edit goals")
			}
			if input.Score != nil {
				return apierr.Validation("goals are scored during review stages, not goal setting")
			}
			if input.Type != nil {
				if !review.ValidGoalType(*input.Type) {
					return apierr.Validation("unknown goal type %q", *input.Type)
				}
				updates["type"] = *input.Type
			}
			if input.Title != nil {
				if *input.Title == "" {
					return apierr.Validation("goal title is required")
				}
				updates["title"] = *input.Title
			}
			if input.Description != nil {
				updates["description"] = *input.Description
			}
			if input.Weight != nil {
				if !review.ValidWeight(*input.Weight) {
					return apierr.Validation("weight %d must be a multiple of 5 between 5 and 100", *input.Weight)
				}
				updates["weight"] = *input.Weight
			}
			if len(updates) == 0 {
				return apierr.Validation("no fields to update")
			}
		}

		if uErr := s.goalRepo.UpdateFields(txc, goal.ID, updates); uErr != nil {
			return fmt.Errorf("update goal: %w", uErr)
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionGoalUpdated,
			EntityType: audit.EntityGoal,
			EntityID:   goal.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			Before:     map[string]any{"title": goal.Title, "weight": goal.Weight, "score": goal.Score},
			After:      updates,
		}); aErr != nil {
			return fmt.Errorf("record audit entry: %w", aErr)
		}

		out, gErr = s.goalRepo.GetByID(txc, p.TenantID, goal.ID)
		return gErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *goalService) Delete(ctx context.Context, reviewID, goalID uuid.UUID) error {
	p, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		rev, lErr := s.lockDraft(txc, p, reviewID)
		if lErr != nil {
			return lErr
		}
		if p.UserID != rev.EmployeeID {
			return apierr.Forbidden("only the review's employee can delete goals")
		}
		goal, gErr := s.goalRepo.GetByID(txc, p.TenantID, goalID)
		if gErr != nil {
			return fmt.Errorf("load goal: %w", gErr)
		}
		if goal == nil || goal.ReviewID != rev.ID {
			return apierr.NotFound("goal", goalID.String())
		}
		if dErr := s.goalRepo.SoftDelete(txc, goal.ID); dErr != nil {
			return fmt.Errorf("delete goal: %w", dErr)
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionGoalDeleted,
			EntityType: audit.EntityGoal,
			EntityID:   goal.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			Before:     map[string]any{"title": goal.Title, "weight": goal.Weight},
		}); aErr != nil {
			return fmt.Errorf("record audit entry: %w", aErr)
		}
		return nil
	})
}

// Reorder replaces the display order of the review's live goals. orderedIDs
// must be a full permutation of the live goal ids; anything missing, extra or
// duplicated rejects the whole request.
func (s *goalService) Reorder(ctx context.Context, reviewID uuid.UUID, orderedIDs []uuid.UUID) ([]*types.Goal, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var out []*types.Goal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		rev, lErr := s.lockDraft(txc, p, reviewID)
		if lErr != nil {
			return lErr
		}
		if p.UserID != rev.EmployeeID {
			return apierr.Forbidden("only the review's employee can reorder goals")
		}

		live, gErr := s.goalRepo.ListByReviewID(txc, rev.ID)
		if gErr != nil {
			return fmt.Errorf("list goals: %w", gErr)
		}
		if len(orderedIDs) != len(live) {
			return apierr.Validation("reorder must name all %d live goals, got %d", len(live), len(orderedIDs))
		}
		liveSet := make(map[uuid.UUID]bool, len(live))
		for _, g := range live {
			liveSet[g.ID] = true
		}
		seen := make(map[uuid.UUID]bool, len(orderedIDs))
		for _, id := range orderedIDs {
			if !liveSet[id] {
				return apierr.Validation("goal %s is not a live goal of this review", id)
			}
			if seen[id] {
				return apierr.Validation("goal %s appears twice in the new order", id)
			}
			seen[id] = true
		}

		for i, id := range orderedIDs {
			if oErr := s.goalRepo.SetDisplayOrder(txc, id, i+1); oErr != nil {
				return fmt.Errorf("set display order: %w", oErr)
			}
		}
		if aErr := s.auditSvc.Record(txc, AuditEntry{
			Action:     audit.ActionGoalsReordered,
			EntityType: audit.EntityReview,
			EntityID:   rev.ID,
			ActorID:    p.UserID,
			TenantID:   p.TenantID,
			After:      map[string]any{"order": orderedIDs},
		}); aErr != nil {
			return fmt.Errorf("record audit entry: %w", aErr)
		}

		out, gErr = s.goalRepo.ListByReviewID(txc, rev.ID)
		return gErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *goalService) List(ctx context.Context, reviewID uuid.UUID) ([]*types.Goal, error) {
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
	if !p.HasAnyRole(types.RoleHR, types.RoleAdmin) && p.UserID != rev.EmployeeID && p.UserID != rev.ManagerID {
		return nil, apierr.Forbidden("not a participant of this review")
	}
	return s.goalRepo.ListByReviewID(dbc, rev.ID)
}
