package calibration

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/talentgrid-backend/internal/data/repos/testutil"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
)

func seedAdjustment(t *testing.T, dbc dbctx.Context, repo AdjustmentRepo, tenantID, sessionID, reviewID, actorID uuid.UUID, seq int) *types.CalibrationAdjustment {
	t.Helper()
	row, err := repo.Create(dbc, &types.CalibrationAdjustment{
		ID:         uuid.New(),
		TenantID:   tenantID,
		SessionID:  sessionID,
		ReviewID:   reviewID,
		AdjustedBy: actorID,
		Seq:        seq,
		Rationale:  "calibration outcome",
	})
	if err != nil {
		t.Fatalf("create adjustment: %v", err)
	}
	return row
}

func TestAdjustmentSeqAndHistory(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	repo := NewAdjustmentRepo(tx, log)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	tenantID := uuid.New()
	facilitator := testutil.SeedUser(t, context.Background(), tx, tenantID)
	session := testutil.SeedSession(t, context.Background(), tx, tenantID, facilitator.ID, types.SessionStatusInProgress)
	reviewID := uuid.New()

	max, err := repo.GetMaxSeq(dbc, session.ID, reviewID)
	if err != nil {
		t.Fatalf("GetMaxSeq: %v", err)
	}
	if max != 0 {
		t.Fatalf("max seq with no rows = %d, want 0", max)
	}

	seedAdjustment(t, dbc, repo, tenantID, session.ID, reviewID, facilitator.ID, 1)
	seedAdjustment(t, dbc, repo, tenantID, session.ID, reviewID, facilitator.ID, 2)

	// A different review in the same session has its own chain.
	otherReview := uuid.New()
	seedAdjustment(t, dbc, repo, tenantID, session.ID, otherReview, facilitator.ID, 1)

	max, err = repo.GetMaxSeq(dbc, session.ID, reviewID)
	if err != nil {
		t.Fatalf("GetMaxSeq: %v", err)
	}
	if max != 2 {
		t.Fatalf("max seq = %d, want 2", max)
	}

	history, err := repo.ListBySessionAndReview(dbc, session.ID, reviewID)
	if err != nil {
		t.Fatalf("ListBySessionAndReview: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d rows, want 2", len(history))
	}
	if history[0].Seq != 2 || history[1].Seq != 1 {
		t.Fatalf("history not newest-first: %d, %d", history[0].Seq, history[1].Seq)
	}
}

func TestSessionReviewMembership(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	repo := NewSessionReviewRepo(tx, log)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	tenantID := uuid.New()
	facilitator := testutil.SeedUser(t, context.Background(), tx, tenantID)
	session := testutil.SeedSession(t, context.Background(), tx, tenantID, facilitator.ID, types.SessionStatusPreparation)
	reviewID := uuid.New()

	exists, err := repo.Exists(dbc, session.ID, reviewID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatalf("membership reported before Add")
	}

	if err := repo.Add(dbc, &types.CalibrationSessionReview{
		TenantID:  tenantID,
		SessionID: session.ID,
		ReviewID:  reviewID,
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	exists, err = repo.Exists(dbc, session.ID, reviewID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatalf("membership missing after Add")
	}

	ids, err := repo.ListReviewIDs(dbc, session.ID)
	if err != nil {
		t.Fatalf("ListReviewIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != reviewID {
		t.Fatalf("ids = %v", ids)
	}
}
