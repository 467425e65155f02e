package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

// GoalRepo aggregates (count, weight sum, scored count) operate only over
// live goals; gorm's DeletedAt handling keeps soft-deleted rows out of
// every query here.
type GoalRepo interface {
	Create(dbc dbctx.Context, rows []*types.Goal) ([]*types.Goal, error)

	GetByID(dbc dbctx.Context, tenantID, id uuid.UUID) (*types.Goal, error)
	ListByReviewID(dbc dbctx.Context, reviewID uuid.UUID) ([]*types.Goal, error)

	CountLiveByReviewID(dbc dbctx.Context, reviewID uuid.UUID) (int64, error)
	CountScoredByReviewID(dbc dbctx.Context, reviewID uuid.UUID) (int64, error)
	SumLiveWeightByReviewID(dbc dbctx.Context, reviewID uuid.UUID) (int, error)
	MaxDisplayOrder(dbc dbctx.Context, reviewID uuid.UUID) (int, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SetDisplayOrder(dbc dbctx.Context, id uuid.UUID, order int) error
	SoftDelete(dbc dbctx.Context, id uuid.UUID) error
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return &goalRepo{db: db, log: baseLog.With("repo", "GoalRepo")}
}

func (r *goalRepo) Create(dbc dbctx.Context, rows []*types.Goal) ([]*types.Goal, error) {
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

func (r *goalRepo) GetByID(dbc dbctx.Context, tenantID, id uuid.UUID) (*types.Goal, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Goal
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

func (r *goalRepo) ListByReviewID(dbc dbctx.Context, reviewID uuid.UUID) ([]*types.Goal, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Goal
	if err := t.WithContext(dbc.Ctx).
		Where("review_id = ?", reviewID).
		Order("display_order ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *goalRepo) CountLiveByReviewID(dbc dbctx.Context, reviewID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Goal{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *goalRepo) CountScoredByReviewID(dbc dbctx.Context, reviewID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Goal{}).
		Where("review_id = ? AND score IS NOT NULL", reviewID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *goalRepo) SumLiveWeightByReviewID(dbc dbctx.Context, reviewID uuid.UUID) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var sum *int
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Goal{}).
		Where("review_id = ?", reviewID).
		Select("SUM(weight)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *goalRepo) MaxDisplayOrder(dbc dbctx.Context, reviewID uuid.UUID) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var max *int
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Goal{}).
		Where("review_id = ?", reviewID).
		Select("MAX(display_order)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *goalRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.Goal{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *goalRepo) SetDisplayOrder(dbc dbctx.Context, id uuid.UUID, order int) error {
	return r.UpdateFields(dbc, id, map[string]interface{}{"display_order": order})
}

func (r *goalRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Goal{}).Error
}
