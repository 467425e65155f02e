package audit

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

// LogRepo is insert-only plus reads. Audit rows are written inside the
// transaction that performs the mutation they describe.
type LogRepo interface {
	Create(dbc dbctx.Context, rows []*types.AuditLogEntry) ([]*types.AuditLogEntry, error)

	ListByEntity(dbc dbctx.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID, limit int) ([]*types.AuditLogEntry, error)
}

type logRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLogRepo(db *gorm.DB, baseLog *logger.Logger) LogRepo {
	return &logRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (r *logRepo) Create(dbc dbctx.Context, rows []*types.AuditLogEntry) ([]*types.AuditLogEntry, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *logRepo) ListByEntity(dbc dbctx.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID, limit int) ([]*types.AuditLogEntry, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var rows []*types.AuditLogEntry
	if err := t.WithContext(dbc.Ctx).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
