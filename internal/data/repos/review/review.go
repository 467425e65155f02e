package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

type ReviewRepo interface {
	Create(dbc dbctx.Context, rows []*types.Review) ([]*types.Review, error)

	GetByID(dbc dbctx.Context, tenantID, id uuid.UUID) (*types.Review, error)
	ListByManager(dbc dbctx.Context, tenantID, managerID uuid.UUID, year int, stage string) ([]*types.Review, error)
	ListByEmployee(dbc dbctx.Context, tenantID, employeeID uuid.UUID) ([]*types.Review, error)

	// LockByID takes a FOR UPDATE row lock; every lifecycle transition and
	// calibration override runs its read-check-write under this lock.
	LockByID(dbc dbctx.Context, tenantID, id uuid.UUID) (*types.Review, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{db: db, log: baseLog.With("repo", "ReviewRepo")}
}

func (r *reviewRepo) Create(dbc dbctx.Context, rows []*types.Review) ([]*types.Review, error) {
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

func (r *reviewRepo) GetByID(dbc dbctx.Context, tenantID, id uuid.UUID) (*types.Review, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Review
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

func (r *reviewRepo) ListByManager(dbc dbctx.Context, tenantID, managerID uuid.UUID, year int, stage string) ([]*types.Review, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).
		Where("tenant_id = ? AND manager_id = ?", tenantID, managerID)
	if year != 0 {
		q = q.Where("review_year = ?", year)
	}
	if stage != "" {
		q = q.Where("stage = ?", stage)
	}
	var rows []*types.Review
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reviewRepo) ListByEmployee(dbc dbctx.Context, tenantID, employeeID uuid.UUID) ([]*types.Review, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Review
	if err := t.WithContext(dbc.Ctx).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID).
		Order("review_year DESC, created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reviewRepo) LockByID(dbc dbctx.Context, tenantID, id uuid.UUID) (*types.Review, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Review
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

func (r *reviewRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.Review{}).
		Where("id = ?", id).
		Updates(updates).Error
}
