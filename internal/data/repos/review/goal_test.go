package review

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/talentgrid-backend/internal/data/repos/testutil"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
)

func TestGoalAggregatesIgnoreDeletedRows(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	repo := NewGoalRepo(tx, log)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	tenantID := uuid.New()
	manager := testutil.SeedUser(t, context.Background(), tx, tenantID)
	employee := testutil.SeedUser(t, context.Background(), tx, tenantID)
	rev := testutil.SeedReview(t, context.Background(), tx, tenantID, employee.ID, manager.ID, types.StageGoalSetting)

	g1 := testutil.SeedGoal(t, context.Background(), tx, rev, 40, testutil.IntPtr(2), 1)
	testutil.SeedGoal(t, context.Background(), tx, rev, 35, nil, 2)
	g3 := testutil.SeedGoal(t, context.Background(), tx, rev, 25, testutil.IntPtr(3), 3)

	if err := repo.SoftDelete(dbc, g3.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	count, err := repo.CountLiveByReviewID(dbc, rev.ID)
	if err != nil {
		t.Fatalf("CountLiveByReviewID: %v", err)
	}
	if count != 2 {
		t.Fatalf("live count = %d, want 2", count)
	}

	scored, err := repo.CountScoredByReviewID(dbc, rev.ID)
	if err != nil {
		t.Fatalf("CountScoredByReviewID: %v", err)
	}
	if scored != 1 {
		t.Fatalf("scored count = %d, want 1", scored)
	}

	sum, err := repo.SumLiveWeightByReviewID(dbc, rev.ID)
	if err != nil {
		t.Fatalf("SumLiveWeightByReviewID: %v", err)
	}
	if sum != 75 {
		t.Fatalf("weight sum = %d, want 75", sum)
	}

	rows, err := repo.ListByReviewID(dbc, rev.ID)
	if err != nil {
		t.Fatalf("ListByReviewID: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != g1.ID {
		t.Fatalf("list returned %d rows", len(rows))
	}
}

func TestGoalMaxDisplayOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	repo := NewGoalRepo(tx, log)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	tenantID := uuid.New()
	manager := testutil.SeedUser(t, context.Background(), tx, tenantID)
	employee := testutil.SeedUser(t, context.Background(), tx, tenantID)
	rev := testutil.SeedReview(t, context.Background(), tx, tenantID, employee.ID, manager.ID, types.StageGoalSetting)

	max, err := repo.MaxDisplayOrder(dbc, rev.ID)
	if err != nil {
		t.Fatalf("MaxDisplayOrder: %v", err)
	}
	if max != 0 {
		t.Fatalf("max on empty review = %d, want 0", max)
	}

	testutil.SeedGoal(t, context.Background(), tx, rev, 50, nil, 4)
	max, err = repo.MaxDisplayOrder(dbc, rev.ID)
	if err != nil {
		t.Fatalf("MaxDisplayOrder: %v", err)
	}
	if max != 4 {
		t.Fatalf("max = %d, want 4", max)
	}
}
