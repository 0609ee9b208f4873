package progress

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

// RelationKey identifies one relation row.
type RelationKey struct {
	UserID      uuid.UUID
	Kind        types.RelationKind
	ContentType types.ContentType
	ContentID   uuid.UUID
}

type ContentRelationRepo interface {
	Insert(dbc dbctx.Context, key RelationKey, isCorrect *bool) (bool, error)
	Delete(dbc dbctx.Context, key RelationKey) (bool, error)
	Exists(dbc dbctx.Context, key RelationKey) (bool, error)
	ExistingContentIDs(dbc dbctx.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentIDs []uuid.UUID) ([]uuid.UUID, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, limit int) ([]*types.ContentRelation, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType) (int64, error)
}

type contentRelationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRelationRepo(db *gorm.DB, baseLog *logger.Logger) ContentRelationRepo {
	repoLog := baseLog.With("repo", "ContentRelationRepo")
	return &contentRelationRepo{db: db, log: repoLog}
}

func (r *contentRelationRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func whereKey(q *gorm.DB, key RelationKey) *gorm.DB {
	return q.Where(
		"user_id = ? AND kind = ? AND content_type = ? AND content_id = ?",
		key.UserID, key.Kind, key.ContentType, key.ContentID,
	)
}

// Insert adds the relation unless it already exists and reports whether this
// call created it. The unique index arbitrates concurrent inserts.
func (r *contentRelationRepo) Insert(dbc dbctx.Context, key RelationKey, isCorrect *bool) (bool, error) {
	row := &types.ContentRelation{
		ID:          uuid.New(),
		UserID:      key.UserID,
		Kind:        key.Kind,
		ContentType: key.ContentType,
		ContentID:   key.ContentID,
		IsCorrect:   isCorrect,
	}
	res := r.tx(dbc).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		if dbctx.IsUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *contentRelationRepo) Delete(dbc dbctx.Context, key RelationKey) (bool, error) {
	res := whereKey(r.tx(dbc), key).Delete(&types.ContentRelation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *contentRelationRepo) Exists(dbc dbctx.Context, key RelationKey) (bool, error) {
	var count int64
	if err := whereKey(r.tx(dbc).Model(&types.ContentRelation{}), key).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *contentRelationRepo) ExistingContentIDs(dbc dbctx.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(contentIDs) == 0 {
		return ids, nil
	}
	if err := r.tx(dbc).
		Model(&types.ContentRelation{}).
		Where("user_id = ? AND kind = ? AND content_type = ? AND content_id IN ?", userID, kind, contentType, contentIDs).
		Pluck("content_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *contentRelationRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, limit int) ([]*types.ContentRelation, error) {
	var results []*types.ContentRelation
	q := r.tx(dbc).
		Where("user_id = ? AND kind = ? AND content_type = ?", userID, kind, contentType).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRelationRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType) (int64, error) {
	var count int64
	if err := r.tx(dbc).
		Model(&types.ContentRelation{}).
		Where("user_id = ? AND kind = ? AND content_type = ?", userID, kind, contentType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
