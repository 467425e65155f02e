package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/domain/identity"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, roles ...identity.Role) *types.User {
	tb.Helper()
	if len(roles) == 0 {
		roles = []identity.Role{identity.RoleEmployee}
	}
	id := uuid.New()
	u := &types.User{
		ID:              id,
		TenantID:        tenantID,
		Email:           fmt.Sprintf("%s@example.com", id.String()[:8]),
		FirstName:       "A",
		LastName:        "B",
		ExternalSubject: "sub-" + id.String()[:8],
		Roles:           identity.JoinRoles(roles),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedReview(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID, employeeID, managerID uuid.UUID, stage string) *types.Review {
	tb.Helper()
	r := &types.Review{
		ID:             uuid.New(),
		TenantID:       tenantID,
		EmployeeID:     employeeID,
		ManagerID:      managerID,
		Stage:          stage,
		Status:         types.ReviewStatusDraft,
		ReviewYear:     2026,
		FrameworkLevel: "TOV1",
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed review: %v", err)
	}
	return r
}

func SeedGoal(tb testing.TB, ctx context.Context, tx *gorm.DB, rev *types.Review, weight int, score *int, order int) *types.Goal {
	tb.Helper()
	g := &types.Goal{
		ID:           uuid.New(),
		TenantID:     rev.TenantID,
		ReviewID:     rev.ID,
		Type:         types.GoalTypeStandard,
		Title:        fmt.Sprintf("goal-%d", order),
		Weight:       weight,
		Score:        score,
		DisplayOrder: order,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed goal: %v", err)
	}
	return g
}

func SeedCompetencyScores(tb testing.TB, ctx context.Context, tx *gorm.DB, rev *types.Review, scores []int) {
	tb.Helper()
	ids := []string{"craftsmanship", "collaboration", "ownership", "customer_focus", "adaptability", "communication"}
	for i, s := range scores {
		cs := &types.CompetencyScore{
			ID:           uuid.New(),
			TenantID:     rev.TenantID,
			ReviewID:     rev.ID,
			CompetencyID: ids[i],
			Score:        s,
		}
		if err := tx.WithContext(ctx).Create(cs).Error; err != nil {
			tb.Fatalf("seed competency score: %v", err)
		}
	}
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID, facilitatorID uuid.UUID, status string) *types.CalibrationSession {
	tb.Helper()
	s := &types.CalibrationSession{
		ID:            uuid.New(),
		TenantID:      tenantID,
		Name:          "H2 calibration",
		Scope:         types.SessionScopeBusinessUnit,
		Status:        status,
		FacilitatorID: facilitatorID,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func IntPtr(v int) *int             { return &v }
func Float64Ptr(v float64) *float64 { return &v }
