package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/talentgrid-backend/internal/data/repos/testutil"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/scoring"
)

func TestTeamStatus(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	e1 := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	e2 := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	e3 := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)

	// Fully scored, partially scored, untouched.
	done := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, e1.ID, manager.ID, types.StageEndYearReview)
	testutil.SeedGoal(t, context.Background(), env.tx, done, 100, testutil.IntPtr(2), 1)
	testutil.SeedCompetencyScores(t, context.Background(), env.tx, done, []int{2, 2, 2, 2, 2, 2})

	partial := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, e2.ID, manager.ID, types.StageEndYearReview)
	testutil.SeedGoal(t, context.Background(), env.tx, partial, 50, testutil.IntPtr(3), 1)
	testutil.SeedGoal(t, context.Background(), env.tx, partial, 50, nil, 2)

	fresh := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, e3.ID, manager.ID, types.StageEndYearReview)
	testutil.SeedGoal(t, context.Background(), env.tx, fresh, 100, nil, 1)

	rows, err := env.team.TeamStatus(asUser(manager), 2026, types.StageEndYearReview)
	if err != nil {
		t.Fatalf("TeamStatus: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	byReview := make(map[uuid.UUID]*TeamMemberStatus, len(rows))
	for _, row := range rows {
		byReview[row.ReviewID] = row
		if row.EmployeeName == "" {
			t.Fatalf("employee name not resolved for %s", row.ReviewID)
		}
	}

	if got := byReview[done.ID]; got == nil || got.Status != scoring.TeamStatusComplete {
		t.Fatalf("fully scored review status = %+v, want COMPLETE", got)
	}
	if got := byReview[partial.ID]; got == nil || got.Status != scoring.TeamStatusInProgress {
		t.Fatalf("partially scored review status = %+v, want IN_PROGRESS", got)
	}
	if got := byReview[fresh.ID]; got == nil || got.Status != scoring.TeamStatusNotStarted {
		t.Fatalf("untouched review status = %+v, want NOT_STARTED", got)
	}
	if got := byReview[partial.ID]; got.GoalCount != 2 || got.ScoredGoalCount != 1 {
		t.Fatalf("partial counts = %d/%d, want 2/1", got.GoalCount, got.ScoredGoalCount)
	}
}

func TestTeamStatusScopesAndGuards(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	other := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageEndYearReview)

	if _, err := env.team.TeamStatus(asUser(employee), 2026, ""); !apierr.IsForbidden(err) {
		t.Fatalf("employee on the dashboard: expected forbidden, got %v", err)
	}
	if _, err := env.team.TeamStatus(asUser(manager), 2026, "QUARTERLY"); !apierr.IsValidation(err) {
		t.Fatalf("unknown stage: expected validation error, got %v", err)
	}

	// Another manager sees none of this manager's reviews.
	rows, err := env.team.TeamStatus(asUser(other), 2026, "")
	if err != nil {
		t.Fatalf("TeamStatus: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("foreign manager sees %d rows, want 0", len(rows))
	}

	// Wrong year filters everything out.
	rows, err = env.team.TeamStatus(asUser(manager), 2024, "")
	if err != nil {
		t.Fatalf("TeamStatus: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("wrong year returned %d rows, want 0", len(rows))
	}
}
