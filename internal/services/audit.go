package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/talentgrid-backend/internal/data/repos"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

type AuditEntry struct {
	Action     string
	EntityType string
	EntityID   uuid.UUID
	ActorID    uuid.UUID
	TenantID   uuid.UUID
	Before     any
	After      any
}

type AuditService interface {
	// Record must be called with a non-nil tx so the audit row commits or
	// rolls back together with the mutation it describes.
	Record(dbc dbctx.Context, entry AuditEntry) error

	ListByEntity(dbc dbctx.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID, limit int) ([]*types.AuditLogEntry, error)
}

type auditService struct {
	db   *gorm.DB
	log  *logger.Logger
	logs repos.AuditLogRepo
}

func NewAuditService(db *gorm.DB, baseLog *logger.Logger, logs repos.AuditLogRepo) AuditService {
	return &auditService{
		db:   db,
		log:  baseLog.With("service", "AuditService"),
		logs: logs,
	}
}

func (s *auditService) Record(dbc dbctx.Context, entry AuditEntry) error {
	if s == nil || s.logs == nil {
		return fmt.Errorf("audit service not configured")
	}
	if dbc.Tx == nil {
		return fmt.Errorf("Record requires a db transaction")
	}
	if entry.Action == "" || entry.EntityType == "" {
		return fmt.Errorf("audit entry missing action or entity type")
	}

	before, err := marshalPayload(entry.Before)
	if err != nil {
		return fmt.Errorf("marshal audit before payload: %w", err)
	}
	after, err := marshalPayload(entry.After)
	if err != nil {
		return fmt.Errorf("marshal audit after payload: %w", err)
	}

	row := &types.AuditLogEntry{
		ID:         uuid.New(),
		TenantID:   entry.TenantID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		ActorID:    entry.ActorID,
		Before:     datatypes.JSON(before),
		After:      datatypes.JSON(after),
		CreatedAt:  time.Now().UTC(),
	}
	_, err = s.logs.Create(dbc, []*types.AuditLogEntry{row})
	return err
}

func (s *auditService) ListByEntity(dbc dbctx.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID, limit int) ([]*types.AuditLogEntry, error) {
	return s.logs.ListByEntity(dbc, tenantID, entityType, entityID, limit)
}

func marshalPayload(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
