package calibration

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

type SessionReviewRepo interface {
	// Add is idempotent; inserting an existing (session, review) pair is a
	// no-op on the unique index.
	Add(dbc dbctx.Context, row *types.CalibrationSessionReview) error

	Exists(dbc dbctx.Context, sessionID, reviewID uuid.UUID) (bool, error)
	ListReviewIDs(dbc dbctx.Context, sessionID uuid.UUID) ([]uuid.UUID, error)
}

type sessionReviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionReviewRepo(db *gorm.DB, baseLog *logger.Logger) SessionReviewRepo {
	return &sessionReviewRepo{db: db, log: baseLog.With("repo", "SessionReviewRepo")}
}

func (r *sessionReviewRepo) Add(dbc dbctx.Context, row *types.CalibrationSessionReview) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "review_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *sessionReviewRepo) Exists(dbc dbctx.Context, sessionID, reviewID uuid.UUID) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.CalibrationSessionReview{}).
		Where("session_id = ? AND review_id = ?", sessionID, reviewID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *sessionReviewRepo) ListReviewIDs(dbc dbctx.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if err := t.WithContext(dbc.Ctx).
		Model(&types.CalibrationSessionReview{}).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Pluck("review_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
