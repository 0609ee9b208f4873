package content

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

// ContentRepo is the read side of the catalog. Rows are seeded outside the service.
type ContentRepo interface {
	GetSubjectsByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Subject, error)
	GetTopicByID(dbc dbctx.Context, id uuid.UUID) (*types.Topic, error)
	GetSubtopicByID(dbc dbctx.Context, id uuid.UUID) (*types.Subtopic, error)
	GetNoteByID(dbc dbctx.Context, id uuid.UUID) (*types.Note, error)
	GetSimulationByID(dbc dbctx.Context, id uuid.UUID) (*types.Simulation, error)
	GetSimulationBySlug(dbc dbctx.Context, slug string) (*types.Simulation, error)
	GetSimulationsByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Simulation, error)
	ExerciseIDsBySubtopic(dbc dbctx.Context, subtopicID uuid.UUID) ([]uuid.UUID, error)
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	repoLog := baseLog.With("repo", "ContentRepo")
	return &contentRepo{db: db, log: repoLog}
}

func (r *contentRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *contentRepo) GetSubjectsByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Subject, error) {
	var results []*types.Subject
	if len(ids) == 0 {
		return results, nil
	}
	if err := r.tx(dbc).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) GetTopicByID(dbc dbctx.Context, id uuid.UUID) (*types.Topic, error) {
	var row types.Topic
	return firstOrNil(r.tx(dbc).Where("id = ?", id), &row)
}

func (r *contentRepo) GetSubtopicByID(dbc dbctx.Context, id uuid.UUID) (*types.Subtopic, error) {
	var row types.Subtopic
	return firstOrNil(r.tx(dbc).Where("id = ?", id), &row)
}

func (r *contentRepo) GetNoteByID(dbc dbctx.Context, id uuid.UUID) (*types.Note, error) {
	var row types.Note
	return firstOrNil(r.tx(dbc).Where("id = ?", id), &row)
}

func (r *contentRepo) GetSimulationByID(dbc dbctx.Context, id uuid.UUID) (*types.Simulation, error) {
	var row types.Simulation
	return firstOrNil(r.tx(dbc).Where("id = ?", id), &row)
}

func (r *contentRepo) GetSimulationBySlug(dbc dbctx.Context, slug string) (*types.Simulation, error) {
	var row types.Simulation
	return firstOrNil(r.tx(dbc).Where("slug = ?", slug), &row)
}

func (r *contentRepo) GetSimulationsByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Simulation, error) {
	var results []*types.Simulation
	if len(ids) == 0 {
		return results, nil
	}
	if err := r.tx(dbc).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) ExerciseIDsBySubtopic(dbc dbctx.Context, subtopicID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.tx(dbc).
		Model(&types.Exercise{}).
		Where("subtopic_id = ?", subtopicID).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// firstOrNil maps a missing row to (nil, nil).
func firstOrNil[T any](q *gorm.DB, row *T) (*T, error) {
	err := q.First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
