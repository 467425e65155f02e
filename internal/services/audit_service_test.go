package services

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/talentgrid-backend/internal/domain/audit"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
)

func TestRecordRequiresTransaction(t *testing.T) {
	env := newTestEnv(t)
	err := env.audits.Record(dbctx.Context{}, AuditEntry{
		Action:     audit.ActionGoalCreated,
		EntityType: audit.EntityGoal,
		EntityID:   uuid.New(),
		TenantID:   env.tenantID,
	})
	if err == nil {
		t.Fatalf("expected error without a transaction")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	entityID := uuid.New()
	actorID := uuid.New()

	err := env.audits.Record(dbctx.Context{Tx: env.tx}, AuditEntry{
		Action:     audit.ActionGoalUpdated,
		EntityType: audit.EntityGoal,
		EntityID:   entityID,
		ActorID:    actorID,
		TenantID:   env.tenantID,
		Before:     map[string]any{"weight": 40},
		After:      map[string]any{"weight": 45},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := env.audits.ListByEntity(dbctx.Context{}, env.tenantID, audit.EntityGoal, entityID, 10)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Action != audit.ActionGoalUpdated || entry.ActorID != actorID {
		t.Fatalf("entry = %+v", entry)
	}

	var after map[string]int
	if err := json.Unmarshal(entry.After, &after); err != nil {
		t.Fatalf("unmarshal after payload: %v", err)
	}
	if after["weight"] != 45 {
		t.Fatalf("after payload = %v", after)
	}
}

func TestRecordRejectsIncompleteEntries(t *testing.T) {
	env := newTestEnv(t)
	if err := env.audits.Record(dbctx.Context{Tx: env.tx}, AuditEntry{
		EntityType: audit.EntityGoal,
	}); err == nil {
		t.Fatalf("expected error for a missing action")
	}
}
