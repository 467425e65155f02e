package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/talentgrid-backend/internal/data/repos"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/domain/review"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
	"github.com/yungbote/talentgrid-backend/internal/scoring"
)

const statusFanOutLimit = 8

// TeamMemberStatus is the per-review dashboard row. Status is derived from
// the counts on every query and never stored.
type TeamMemberStatus struct {
	ReviewID              uuid.UUID          `json:"review_id"`
	EmployeeID            uuid.UUID          `json:"employee_id"`
	EmployeeName          string             `json:"employee_name,omitempty"`
	Stage                 string             `json:"stage"`
	ReviewStatus          string             `json:"review_status"`
	GoalCount             int                `json:"goal_count"`
	ScoredGoalCount       int                `json:"scored_goal_count"`
	CompetencyScoredCount int                `json:"competency_scored_count"`
	Status                scoring.TeamStatus `json:"status"`
}

type TeamStatusService interface {
	TeamStatus(ctx context.Context, year int, stage string) ([]*TeamMemberStatus, error)
}

type teamStatusService struct {
	db         *gorm.DB
	log        *logger.Logger
	reviewRepo repos.ReviewRepo
	goalRepo   repos.GoalRepo
	compRepo   repos.CompetencyScoreRepo
	userRepo   repos.UserRepo
}

func NewTeamStatusService(
	db *gorm.DB,
	baseLog *logger.Logger,
	reviewRepo repos.ReviewRepo,
	goalRepo repos.GoalRepo,
	compRepo repos.CompetencyScoreRepo,
	userRepo repos.UserRepo,
) TeamStatusService {
	return &teamStatusService{
		db:         db,
		log:        baseLog.With("service", "TeamStatusService"),
		reviewRepo: reviewRepo,
		goalRepo:   goalRepo,
		compRepo:   compRepo,
		userRepo:   userRepo,
	}
}

// TeamStatus builds the manager dashboard for one review year and optional
// stage. The per-review counts are independent reads, so they fan out on an
// errgroup with a small concurrency cap.
func (s *teamStatusService) TeamStatus(ctx context.Context, year int, stage string) ([]*TeamMemberStatus, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasAnyRole(types.RoleManager, types.RoleHR, types.RoleAdmin) {
		return nil, apierr.Forbidden("manager role required for the team dashboard")
	}
	if stage != "" && !review.ValidStage(stage) {
		return nil, apierr.Validation("unknown stage %q", stage)
	}

	dbc := dbctx.Context{Ctx: ctx}
	reviews, err := s.reviewRepo.ListByManager(dbc, p.TenantID, p.UserID, year, stage)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	rows := make([]*TeamMemberStatus, len(reviews))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusFanOutLimit)
	for i, rev := range reviews {
		g.Go(func() error {
			row, rErr := s.statusFor(gctx, rev)
			if rErr != nil {
				return rErr
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.fillEmployeeNames(dbc, rows); err != nil {
		s.log.Warn("could not resolve employee names", "error", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].EmployeeName < rows[j].EmployeeName
	})
	return rows, nil
}

func (s *teamStatusService) statusFor(ctx context.Context, rev *types.Review) (*TeamMemberStatus, error) {
	dbc := dbctx.Context{Ctx: ctx}
	goalCount, err := s.goalRepo.CountLiveByReviewID(dbc, rev.ID)
	if err != nil {
		return nil, fmt.Errorf("count goals for %s: %w", rev.ID, err)
	}
	scoredCount, err := s.goalRepo.CountScoredByReviewID(dbc, rev.ID)
	if err != nil {
		return nil, fmt.Errorf("count scored goals for %s: %w", rev.ID, err)
	}
	compCount, err := s.compRepo.CountByReviewID(dbc, rev.ID)
	if err != nil {
		return nil, fmt.Errorf("count competency scores for %s: %w", rev.ID, err)
	}
	return &TeamMemberStatus{
		ReviewID:              rev.ID,
		EmployeeID:            rev.EmployeeID,
		Stage:                 rev.Stage,
		ReviewStatus:          rev.Status,
		GoalCount:             int(goalCount),
		ScoredGoalCount:       int(scoredCount),
		CompetencyScoredCount: int(compCount),
		Status:                scoring.DeriveTeamStatus(int(goalCount), int(scoredCount), int(compCount)),
	}, nil
}

func (s *teamStatusService) fillEmployeeNames(dbc dbctx.Context, rows []*TeamMemberStatus) error {
	ids := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		if !seen[row.EmployeeID] {
			seen[row.EmployeeID] = true
			ids = append(ids, row.EmployeeID)
		}
	}
	users, err := s.userRepo.GetByIDs(dbc, ids)
	if err != nil {
		return err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FirstName + " " + u.LastName
	}
	for _, row := range rows {
		row.EmployeeName = names[row.EmployeeID]
	}
	return nil
}
