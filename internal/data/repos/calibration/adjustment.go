package calibration

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

// AdjustmentRepo is insert-only. There is deliberately no update or delete:
// the adjustment table is the calibration audit trail.
type AdjustmentRepo interface {
	Create(dbc dbctx.Context, row *types.CalibrationAdjustment) (*types.CalibrationAdjustment, error)

	// GetMaxSeq serializes chained overrides; callers hold the review row
	// lock while assigning seq = max + 1.
	GetMaxSeq(dbc dbctx.Context, sessionID, reviewID uuid.UUID) (int, error)

	// ListBySessionAndReview returns history newest-first.
	ListBySessionAndReview(dbc dbctx.Context, sessionID, reviewID uuid.UUID) ([]*types.CalibrationAdjustment, error)
}

type adjustmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdjustmentRepo(db *gorm.DB, baseLog *logger.Logger) AdjustmentRepo {
	return &adjustmentRepo{db: db, log: baseLog.With("repo", "AdjustmentRepo")}
}

func (r *adjustmentRepo) Create(dbc dbctx.Context, row *types.CalibrationAdjustment) (*types.CalibrationAdjustment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *adjustmentRepo) GetMaxSeq(dbc dbctx.Context, sessionID, reviewID uuid.UUID) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var max *int
	if err := t.WithContext(dbc.Ctx).
		Model(&types.CalibrationAdjustment{}).
		Where("session_id = ? AND review_id = ?", sessionID, reviewID).
		Select("MAX(seq)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *adjustmentRepo) ListBySessionAndReview(dbc dbctx.Context, sessionID, reviewID uuid.UUID) ([]*types.CalibrationAdjustment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.CalibrationAdjustment
	if err := t.WithContext(dbc.Ctx).
		Where("session_id = ? AND review_id = ?", sessionID, reviewID).
		Order("seq DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
