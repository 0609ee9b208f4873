package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type StudySessionRepo interface {
	LatestForUserNote(dbc dbctx.Context, userID, noteID uuid.UUID) (*types.StudySession, error)
	Create(dbc dbctx.Context, session *types.StudySession) error
	TouchOwned(dbc dbctx.Context, userID, sessionID uuid.UUID, at time.Time) (int64, error)
	GetByID(dbc dbctx.Context, sessionID uuid.UUID) (*types.StudySession, error)
	ListForUserSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.StudySession, error)
}

type studySessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	repoLog := baseLog.With("repo", "StudySessionRepo")
	return &studySessionRepo{db: db, log: repoLog}
}

func (r *studySessionRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *studySessionRepo) LatestForUserNote(dbc dbctx.Context, userID, noteID uuid.UUID) (*types.StudySession, error) {
	var rows []*types.StudySession
	if err := r.tx(dbc).
		Where("user_id = ? AND note_id = ?", userID, noteID).
		Order("last_active_at DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *studySessionRepo) Create(dbc dbctx.Context, session *types.StudySession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	return r.tx(dbc).Create(session).Error
}

// TouchOwned stamps last_active_at only when the session belongs to userID.
// Zero rows means missing or foreign; callers do not distinguish the two.
func (r *studySessionRepo) TouchOwned(dbc dbctx.Context, userID, sessionID uuid.UUID, at time.Time) (int64, error) {
	res := r.tx(dbc).
		Model(&types.StudySession{}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Update("last_active_at", at)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *studySessionRepo) GetByID(dbc dbctx.Context, sessionID uuid.UUID) (*types.StudySession, error) {
	var rows []*types.StudySession
	if err := r.tx(dbc).Where("id = ?", sessionID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *studySessionRepo) ListForUserSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.StudySession, error) {
	var results []*types.StudySession
	if err := r.tx(dbc).
		Where("user_id = ? AND last_active_at >= ?", userID, since).
		Order("started_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
