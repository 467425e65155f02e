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

type CompetencyScoreRepo interface {
	// Upsert is keyed on (review_id, competency_id).
	Upsert(dbc dbctx.Context, row *types.CompetencyScore) (*types.CompetencyScore, error)

	ListByReviewID(dbc dbctx.Context, reviewID uuid.UUID) ([]*types.CompetencyScore, error)
	CountByReviewID(dbc dbctx.Context, reviewID uuid.UUID) (int64, error)
}

type competencyScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompetencyScoreRepo(db *gorm.DB, baseLog *logger.Logger) CompetencyScoreRepo {
	return &competencyScoreRepo{db: db, log: baseLog.With("repo", "CompetencyScoreRepo")}
}

func (r *competencyScoreRepo) Upsert(dbc dbctx.Context, row *types.CompetencyScore) (*types.CompetencyScore, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}, {Name: "competency_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "notes", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *competencyScoreRepo) ListByReviewID(dbc dbctx.Context, reviewID uuid.UUID) ([]*types.CompetencyScore, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.CompetencyScore
	if err := t.WithContext(dbc.Ctx).
		Where("review_id = ?", reviewID).
		Order("competency_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *competencyScoreRepo) CountByReviewID(dbc dbctx.Context, reviewID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.CompetencyScore{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
