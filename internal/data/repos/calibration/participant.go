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

type ParticipantRepo interface {
	// Upsert is keyed on (session_id, user_id): a repeated add updates the
	// participant's role.
	Upsert(dbc dbctx.Context, row *types.CalibrationParticipant) (*types.CalibrationParticipant, error)

	ListBySessionID(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.CalibrationParticipant, error)
	Remove(dbc dbctx.Context, sessionID, userID uuid.UUID) error
}

type participantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParticipantRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantRepo {
	return &participantRepo{db: db, log: baseLog.With("repo", "ParticipantRepo")}
}

func (r *participantRepo) Upsert(dbc dbctx.Context, row *types.CalibrationParticipant) (*types.CalibrationParticipant, error) {
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
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *participantRepo) ListBySessionID(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.CalibrationParticipant, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.CalibrationParticipant
	if err := t.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *participantRepo) Remove(dbc dbctx.Context, sessionID, userID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&types.CalibrationParticipant{}).Error
}
