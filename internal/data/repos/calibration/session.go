package calibration

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, rows []*types.CalibrationSession) ([]*types.CalibrationSession, error)

	GetByID(dbc dbctx.Context, tenantID, id uuid.UUID) (*types.CalibrationSession, error)
	ListByTenant(dbc dbctx.Context, tenantID uuid.UUID) ([]*types.CalibrationSession, error)

	// LockByID guards every session transition and adjustment against
	// concurrent double-transitions.
	LockByID(dbc dbctx.Context, tenantID, id uuid.UUID) (*types.CalibrationSession, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	// Delete hard-deletes the session and its membership/participant rows.
	// Callers only reach it while the session is still in PREPARATION.
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "CalibrationSessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, rows []*types.CalibrationSession) ([]*types.CalibrationSession, error) {
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

func (r *sessionRepo) GetByID(dbc dbctx.Context, tenantID, id uuid.UUID) (*types.CalibrationSession, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.CalibrationSession
	if err := t.WithContext(dbc.Ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepo) ListByTenant(dbc dbctx.Context, tenantID uuid.UUID) ([]*types.CalibrationSession, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.CalibrationSession
	if err := t.WithContext(dbc.Ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sessionRepo) LockByID(dbc dbctx.Context, tenantID, id uuid.UUID) (*types.CalibrationSession, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.CalibrationSession
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.CalibrationSession{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *sessionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).
		Where("session_id = ?", id).
		Delete(&types.CalibrationSessionReview{}).Error; err != nil {
		return err
	}
	if err := t.WithContext(dbc.Ctx).
		Where("session_id = ?", id).
		Delete(&types.CalibrationParticipant{}).Error; err != nil {
		return err
	}
	return t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.CalibrationSession{}).Error
}
