package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/talentgrid-backend/internal/competency"
	"github.com/yungbote/talentgrid-backend/internal/data/repos"
	"github.com/yungbote/talentgrid-backend/internal/data/repos/testutil"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/requestdata"
)

// testEnv wires the full service stack over the rollback transaction so
// every test sees a clean database.
type testEnv struct {
	tx       *gorm.DB
	tenantID uuid.UUID

	reviews     ReviewService
	goals       GoalService
	calibration CalibrationService
	team        TeamStatusService
	audits      AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	cat, err := competency.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	userRepo := repos.NewUserRepo(tx, log)
	reviewRepo := repos.NewReviewRepo(tx, log)
	goalRepo := repos.NewGoalRepo(tx, log)
	compRepo := repos.NewCompetencyScoreRepo(tx, log)
	sessionRepo := repos.NewCalibrationSessionRepo(tx, log)
	sessionReviews := repos.NewSessionReviewRepo(tx, log)
	participantRepo := repos.NewParticipantRepo(tx, log)
	adjustmentRepo := repos.NewAdjustmentRepo(tx, log)
	auditLogs := repos.NewAuditLogRepo(tx, log)

	auditSvc := NewAuditService(tx, log, auditLogs)

	return &testEnv{
		tx:          tx,
		tenantID:    uuid.New(),
		reviews:     NewReviewService(tx, log, reviewRepo, goalRepo, compRepo, userRepo, cat, auditSvc),
		goals:       NewGoalService(tx, log, reviewRepo, goalRepo, auditSvc),
		calibration: NewCalibrationService(tx, log, sessionRepo, sessionReviews, participantRepo, adjustmentRepo, reviewRepo, userRepo, auditSvc),
		team:        NewTeamStatusService(tx, log, reviewRepo, goalRepo, compRepo, userRepo),
		audits:      auditSvc,
	}
}

func asUser(u *types.User) context.Context {
	return requestdata.WithPrincipal(context.Background(), &requestdata.Principal{
		UserID:   u.ID,
		TenantID: u.TenantID,
		Subject:  u.ExternalSubject,
		Roles:    u.RoleSet(),
	})
}
