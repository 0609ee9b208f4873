package progress

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type SimulationAttemptRepo interface {
	Create(dbc dbctx.Context, attempt *types.SimulationAttempt) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.SimulationAttempt, error)
}

type simulationAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSimulationAttemptRepo(db *gorm.DB, baseLog *logger.Logger) SimulationAttemptRepo {
	repoLog := baseLog.With("repo", "SimulationAttemptRepo")
	return &simulationAttemptRepo{db: db, log: repoLog}
}

func (r *simulationAttemptRepo) Create(dbc dbctx.Context, attempt *types.SimulationAttempt) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	return transaction.WithContext(dbc.Ctx).Create(attempt).Error
}

func (r *simulationAttemptRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.SimulationAttempt, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SimulationAttempt
	q := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
