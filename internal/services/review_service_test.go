package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/talentgrid-backend/internal/data/repos/testutil"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/domain/audit"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
)

func TestCreateReviewValidation(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	ctx := asUser(manager)

	if _, err := env.reviews.Create(ctx, CreateReviewInput{
		EmployeeID: manager.ID, Stage: types.StageGoalSetting, ReviewYear: 2026, FrameworkLevel: "TOV1",
	}); !apierr.IsValidation(err) {
		t.Fatalf("self-review: expected validation error, got %v", err)
	}
	if _, err := env.reviews.Create(ctx, CreateReviewInput{
		EmployeeID: employee.ID, Stage: "QUARTERLY", ReviewYear: 2026, FrameworkLevel: "TOV1",
	}); !apierr.IsValidation(err) {
		t.Fatalf("bad stage: expected validation error, got %v", err)
	}
	if _, err := env.reviews.Create(ctx, CreateReviewInput{
		EmployeeID: employee.ID, Stage: types.StageGoalSetting, ReviewYear: 2026, FrameworkLevel: "TOV7",
	}); !apierr.IsValidation(err) {
		t.Fatalf("bad level: expected validation error, got %v", err)
	}

	rev, err := env.reviews.Create(ctx, CreateReviewInput{
		EmployeeID: employee.ID, Stage: types.StageGoalSetting, ReviewYear: 2026, FrameworkLevel: "TOV1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rev.ManagerID != manager.ID {
		t.Fatalf("manager defaulted to %s, want actor %s", rev.ManagerID, manager.ID)
	}
	if rev.Status != types.ReviewStatusDraft {
		t.Fatalf("new review status = %s, want DRAFT", rev.Status)
	}

	if _, err := env.reviews.Create(asUser(employee), CreateReviewInput{
		EmployeeID: manager.ID, Stage: types.StageGoalSetting, ReviewYear: 2026, FrameworkLevel: "TOV1",
	}); !apierr.IsForbidden(err) {
		t.Fatalf("employee creating a review: expected forbidden, got %v", err)
	}
}

func TestGetIsTenantScoped(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageGoalSetting)

	if _, err := env.reviews.Get(asUser(employee), rev.ID); err != nil {
		t.Fatalf("participant read: %v", err)
	}

	outsider := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	if _, err := env.reviews.Get(asUser(outsider), rev.ID); !apierr.IsForbidden(err) {
		t.Fatalf("non-participant read: expected forbidden, got %v", err)
	}

	// HR in another tenant never learns the review exists.
	otherTenantHR := testutil.SeedUser(t, context.Background(), env.tx, uuid.New(), types.RoleHR)
	if _, err := env.reviews.Get(asUser(otherTenantHR), rev.ID); !apierr.IsNotFound(err) {
		t.Fatalf("cross-tenant read: expected not found, got %v", err)
	}
}

func TestSubmitGoalSetting(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageGoalSetting)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 40, nil, 1)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 35, nil, 2)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 25, nil, 3)

	if _, err := env.reviews.Submit(asUser(manager), rev.ID); !apierr.IsForbidden(err) {
		t.Fatalf("manager submitting goals: expected forbidden, got %v", err)
	}

	out, err := env.reviews.Submit(asUser(employee), rev.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Status != types.ReviewStatusPendingManagerSignature {
		t.Fatalf("status = %s, want PENDING_MANAGER_SIGNATURE", out.Status)
	}

	entries, err := env.audits.ListByEntity(dbctx.Context{Ctx: asUser(employee)}, env.tenantID, audit.EntityReview, rev.ID, 10)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != audit.ActionGoalsSubmitted {
		t.Fatalf("audit trail = %+v, want one GOALS_SUBMITTED entry", entries)
	}
}

func TestSubmitRejectsBadWeightSums(t *testing.T) {
	for _, weights := range [][]int{{40, 35, 20}, {40, 35, 30}} {
		env := newTestEnv(t)
		manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
		employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
		rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageGoalSetting)
		for i, w := range weights {
			testutil.SeedGoal(t, context.Background(), env.tx, rev, w, nil, i+1)
		}

		if _, err := env.reviews.Submit(asUser(employee), rev.ID); !apierr.IsValidation(err) {
			t.Fatalf("weights %v: expected validation error, got %v", weights, err)
		}

		// The failed submit must leave no trace.
		entries, err := env.audits.ListByEntity(dbctx.Context{Ctx: asUser(employee)}, env.tenantID, audit.EntityReview, rev.ID, 10)
		if err != nil {
			t.Fatalf("list audit: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("failed submit left %d audit entries", len(entries))
		}
	}
}

func TestSubmitWithoutGoals(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageGoalSetting)

	if _, err := env.reviews.Submit(asUser(employee), rev.ID); !apierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitScoringComputesScores(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageEndYearReview)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 40, testutil.IntPtr(2), 1)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 35, testutil.IntPtr(3), 2)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 25, testutil.IntPtr(2), 3)
	testutil.SeedCompetencyScores(t, context.Background(), env.tx, rev, []int{2, 2, 3, 2, 2, 3})

	if _, err := env.reviews.Submit(asUser(employee), rev.ID); !apierr.IsForbidden(err) {
		t.Fatalf("employee submitting scores: expected forbidden, got %v", err)
	}

	out, err := env.reviews.Submit(asUser(manager), rev.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Status != types.ReviewStatusPendingEmployeeSignature {
		t.Fatalf("status = %s, want PENDING_EMPLOYEE_SIGNATURE", out.Status)
	}
	if out.WhatScore == nil || *out.WhatScore != 2.35 {
		t.Fatalf("what score = %v, want 2.35", out.WhatScore)
	}
	if out.HowScore == nil || *out.HowScore != 2.33 {
		t.Fatalf("how score = %v, want 2.33", out.HowScore)
	}
	if out.VetoApplied {
		t.Fatalf("veto applied without any competency scored 1")
	}
	if out.GridPositionWhat == nil || *out.GridPositionWhat != 3 {
		t.Fatalf("grid what = %v, want 3", out.GridPositionWhat)
	}
	if out.GridPositionHow == nil || *out.GridPositionHow != 2 {
		t.Fatalf("grid how = %v, want 2", out.GridPositionHow)
	}
}

func TestSubmitScoringAppliesVeto(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageEndYearReview)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 100, testutil.IntPtr(3), 1)
	testutil.SeedCompetencyScores(t, context.Background(), env.tx, rev, []int{1, 3, 3, 3, 3, 3})

	out, err := env.reviews.Submit(asUser(manager), rev.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.HowScore == nil || *out.HowScore != 1.00 {
		t.Fatalf("how score = %v, want 1.00", out.HowScore)
	}
	if !out.VetoApplied {
		t.Fatalf("veto not applied")
	}
	if out.GridPositionHow == nil || *out.GridPositionHow != 1 {
		t.Fatalf("grid how = %v, want 1", out.GridPositionHow)
	}
}

func TestSubmitScoringRequiresAllCompetencies(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageEndYearReview)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 100, testutil.IntPtr(2), 1)
	testutil.SeedCompetencyScores(t, context.Background(), env.tx, rev, []int{2, 2, 3, 2, 2})

	if _, err := env.reviews.Submit(asUser(manager), rev.ID); !apierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSignFlowToSigned(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageGoalSetting)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 100, nil, 1)

	if _, err := env.reviews.Submit(asUser(employee), rev.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Manager's signature is pending, the employee cannot provide it.
	if _, err := env.reviews.Sign(asUser(employee), rev.ID); !apierr.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	mid, err := env.reviews.Sign(asUser(manager), rev.ID)
	if err != nil {
		t.Fatalf("manager Sign: %v", err)
	}
	if mid.Status != types.ReviewStatusPendingEmployeeSignature {
		t.Fatalf("status after first signature = %s, want PENDING_EMPLOYEE_SIGNATURE", mid.Status)
	}
	if mid.ManagerSignedAt == nil || mid.ManagerSignedBy == nil {
		t.Fatalf("manager signature not stamped")
	}

	done, err := env.reviews.Sign(asUser(employee), rev.ID)
	if err != nil {
		t.Fatalf("employee Sign: %v", err)
	}
	if done.Status != types.ReviewStatusSigned {
		t.Fatalf("status after both signatures = %s, want SIGNED", done.Status)
	}
	if done.GoalSettingCompletedAt == nil {
		t.Fatalf("goal setting completion timestamp not stamped")
	}

	// Terminal: nothing else is admitted.
	if _, err := env.reviews.Sign(asUser(employee), rev.ID); !apierr.IsInvalidState(err) {
		t.Fatalf("signing a SIGNED review: expected invalid state, got %v", err)
	}
	if _, err := env.reviews.Submit(asUser(employee), rev.ID); !apierr.IsInvalidState(err) {
		t.Fatalf("submitting a SIGNED review: expected invalid state, got %v", err)
	}
}

func TestRejectReopensDraftAndClearsSignatures(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageGoalSetting)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 100, nil, 1)

	if _, err := env.reviews.Submit(asUser(employee), rev.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := env.reviews.Reject(asUser(manager), rev.ID, ""); !apierr.IsValidation(err) {
		t.Fatalf("empty feedback: expected validation error, got %v", err)
	}
	if _, err := env.reviews.Reject(asUser(manager), rev.ID, "   "); !apierr.IsValidation(err) {
		t.Fatalf("blank feedback: expected validation error, got %v", err)
	}
	if _, err := env.reviews.Reject(asUser(employee), rev.ID, "not mine to reject"); !apierr.IsForbidden(err) {
		t.Fatalf("wrong actor: expected forbidden, got %v", err)
	}

	out, err := env.reviews.Reject(asUser(manager), rev.ID, "goal two is not measurable")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if out.Status != types.ReviewStatusDraft {
		t.Fatalf("status = %s, want DRAFT", out.Status)
	}
	if out.RejectionFeedback != "goal two is not measurable" {
		t.Fatalf("feedback = %q", out.RejectionFeedback)
	}
	if out.EmployeeSignedAt != nil || out.ManagerSignedAt != nil {
		t.Fatalf("signatures survived the rejection")
	}

	// Resubmitting clears the stored feedback.
	resubmitted, err := env.reviews.Submit(asUser(employee), rev.ID)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if resubmitted.RejectionFeedback != "" {
		t.Fatalf("feedback survived resubmit: %q", resubmitted.RejectionFeedback)
	}
}

func TestScoringRejectSendsBackOneStep(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageEndYearReview)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 100, testutil.IntPtr(2), 1)
	testutil.SeedCompetencyScores(t, context.Background(), env.tx, rev, []int{2, 2, 2, 2, 2, 2})

	if _, err := env.reviews.Submit(asUser(manager), rev.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := env.reviews.Sign(asUser(employee), rev.ID); err != nil {
		t.Fatalf("employee Sign: %v", err)
	}

	// Manager signature pending on a scoring stage: rejecting sends the
	// review back one step and voids the employee's signature only.
	out, err := env.reviews.Reject(asUser(manager), rev.ID, "score on goal one is too generous")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if out.Status != types.ReviewStatusPendingEmployeeSignature {
		t.Fatalf("status = %s, want PENDING_EMPLOYEE_SIGNATURE", out.Status)
	}
	if out.EmployeeSignedAt != nil || out.EmployeeSignedBy != nil {
		t.Fatalf("employee signature survived the rejection")
	}
}

func TestArchiveRequiresHR(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	hr := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleHR)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageGoalSetting)

	if _, err := env.reviews.Archive(asUser(manager), rev.ID); !apierr.IsForbidden(err) {
		t.Fatalf("manager archiving: expected forbidden, got %v", err)
	}
	out, err := env.reviews.Archive(asUser(hr), rev.ID)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if out.Status != types.ReviewStatusArchived {
		t.Fatalf("status = %s, want ARCHIVED", out.Status)
	}
	if _, err := env.reviews.Archive(asUser(hr), rev.ID); !apierr.IsInvalidState(err) {
		t.Fatalf("archiving twice: expected invalid state, got %v", err)
	}
}

func TestUpsertCompetencyScore(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageEndYearReview)
	ctx := asUser(manager)

	if _, err := env.reviews.UpsertCompetencyScore(asUser(employee), rev.ID, UpsertCompetencyScoreInput{
		CompetencyID: "craftsmanship", Score: 2,
	}); !apierr.IsForbidden(err) {
		t.Fatalf("employee scoring: expected forbidden, got %v", err)
	}
	if _, err := env.reviews.UpsertCompetencyScore(ctx, rev.ID, UpsertCompetencyScoreInput{
		CompetencyID: "strategic_vision", Score: 2,
	}); !apierr.IsValidation(err) {
		t.Fatalf("competency outside the level: expected validation error, got %v", err)
	}
	if _, err := env.reviews.UpsertCompetencyScore(ctx, rev.ID, UpsertCompetencyScoreInput{
		CompetencyID: "craftsmanship", Score: 4,
	}); !apierr.IsValidation(err) {
		t.Fatalf("score out of range: expected validation error, got %v", err)
	}

	if _, err := env.reviews.UpsertCompetencyScore(ctx, rev.ID, UpsertCompetencyScoreInput{
		CompetencyID: "craftsmanship", Score: 2, Notes: "solid",
	}); err != nil {
		t.Fatalf("UpsertCompetencyScore: %v", err)
	}
	if _, err := env.reviews.UpsertCompetencyScore(ctx, rev.ID, UpsertCompetencyScoreInput{
		CompetencyID: "craftsmanship", Score: 3,
	}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	scores, err := env.reviews.ListCompetencyScores(ctx, rev.ID)
	if err != nil {
		t.Fatalf("ListCompetencyScores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d rows, want 1", len(scores))
	}
	if scores[0].Score != 3 {
		t.Fatalf("score = %d, want 3", scores[0].Score)
	}

	goalSetting := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageGoalSetting)
	if _, err := env.reviews.UpsertCompetencyScore(ctx, goalSetting.ID, UpsertCompetencyScoreInput{
		CompetencyID: "craftsmanship", Score: 2,
	}); !apierr.IsValidation(err) {
		t.Fatalf("scoring during goal setting: expected validation error, got %v", err)
	}
}

func TestAuditTrailRequiresHR(t *testing.T) {
	env := newTestEnv(t)
	manager := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleManager)
	employee := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID)
	hr := testutil.SeedUser(t, context.Background(), env.tx, env.tenantID, types.RoleHR)
	rev := testutil.SeedReview(t, context.Background(), env.tx, env.tenantID, employee.ID, manager.ID, types.StageGoalSetting)
	testutil.SeedGoal(t, context.Background(), env.tx, rev, 100, nil, 1)

	if _, err := env.reviews.Submit(asUser(employee), rev.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := env.reviews.AuditTrail(asUser(manager), rev.ID, 10); !apierr.IsForbidden(err) {
		t.Fatalf("manager reading audit trail: expected forbidden, got %v", err)
	}
	entries, err := env.reviews.AuditTrail(asUser(hr), rev.ID, 10)
	if err != nil {
		t.Fatalf("AuditTrail: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
}
