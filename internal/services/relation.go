package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type RelationRecorder interface {
	IncRelationMutation(kind, contentType, op string)
}

// RelationService is the one implementation behind flags, favorites and
// completions. Every method takes the acting user explicitly.
type RelationService interface {
	Toggle(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentID uuid.UUID) (bool, error)
	Set(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentID uuid.UUID, present bool) error
	Ensure(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentID uuid.UUID, isCorrect *bool) (bool, error)
	Exists(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentID uuid.UUID) (bool, error)
	Existing(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentIDs []uuid.UUID) ([]uuid.UUID, error)
	List(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, limit int) ([]uuid.UUID, error)
}

type relationService struct {
	log  *logger.Logger
	repo repos.ContentRelationRepo
	rec  RelationRecorder
}

func NewRelationService(log *logger.Logger, repo repos.ContentRelationRepo, rec RelationRecorder) RelationService {
	return &relationService{
		log:  log.With("service", "RelationService"),
		repo: repo,
		rec:  rec,
	}
}

func (s *relationService) key(userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentID uuid.UUID) (repos.RelationKey, error) {
	if err := requireUser(userID); err != nil {
		return repos.RelationKey{}, err
	}
	if !kind.Valid() || !contentType.Valid() {
		return repos.RelationKey{}, fmt.Errorf("unsupported relation %s/%s", kind, contentType)
	}
	if contentID == uuid.Nil {
		return repos.RelationKey{}, apierr.BadRequest("invalid_content_id", "invalid content id")
	}
	return repos.RelationKey{UserID: userID, Kind: kind, ContentType: contentType, ContentID: contentID}, nil
}

func (s *relationService) record(key repos.RelationKey, op string) {
	if s.rec != nil {
		s.rec.IncRelationMutation(string(key.Kind), string(key.ContentType), op)
	}
}

// Toggle flips the relation and returns whether it is present afterwards.
// Delete goes first; when nothing was deleted an insert-if-absent follows, and
// losing that insert to a concurrent request still leaves the relation present.
func (s *relationService) Toggle(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentID uuid.UUID) (bool, error) {
	key, err := s.key(userID, kind, contentType, contentID)
	if err != nil {
		return false, err
	}
	dbc := dbctx.Of(ctx)

	deleted, err := s.repo.Delete(dbc, key)
	if err != nil {
		return false, fmt.Errorf("toggle %s: delete: %w", kind, err)
	}
	if deleted {
		s.record(key, "delete")
		return false, nil
	}

	created, err := s.repo.Insert(dbc, key, nil)
	if err != nil {
		return false, fmt.Errorf("toggle %s: insert: %w", kind, err)
	}
	if created {
		s.record(key, "insert")
	}
	return true, nil
}

func (s *relationService) Set(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentID uuid.UUID, present bool) error {
	key, err := s.key(userID, kind, contentType, contentID)
	if err != nil {
		return err
	}
	dbc := dbctx.Of(ctx)

	if !present {
		deleted, err := s.repo.Delete(dbc, key)
		if err != nil {
			return fmt.Errorf("set %s: delete: %w", kind, err)
		}
		if deleted {
			s.record(key, "delete")
		}
		return nil
	}
	created, err := s.repo.Insert(dbc, key, nil)
	if err != nil {
		return fmt.Errorf("set %s: insert: %w", kind, err)
	}
	if created {
		s.record(key, "insert")
	}
	return nil
}

// Ensure never removes anything; repeated calls succeed and keep the first row.
func (s *relationService) Ensure(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentID uuid.UUID, isCorrect *bool) (bool, error) {
	key, err := s.key(userID, kind, contentType, contentID)
	if err != nil {
		return false, err
	}
	created, err := s.repo.Insert(dbctx.Of(ctx), key, isCorrect)
	if err != nil {
		return false, fmt.Errorf("ensure %s: %w", kind, err)
	}
	if created {
		s.record(key, "insert")
	}
	return created, nil
}

func (s *relationService) Exists(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentID uuid.UUID) (bool, error) {
	key, err := s.key(userID, kind, contentType, contentID)
	if err != nil {
		return false, err
	}
	ok, err := s.repo.Exists(dbctx.Of(ctx), key)
	if err != nil {
		return false, fmt.Errorf("query %s: %w", kind, err)
	}
	return ok, nil
}

// Existing returns the subset of contentIDs that have the relation, in input
// order without duplicates.
func (s *relationService) Existing(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, contentIDs []uuid.UUID) ([]uuid.UUID, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	out := []uuid.UUID{}
	if len(contentIDs) == 0 {
		return out, nil
	}
	found, err := s.repo.ExistingContentIDs(dbctx.Of(ctx), userID, kind, contentType, contentIDs)
	if err != nil {
		return nil, fmt.Errorf("bulk query %s: %w", kind, err)
	}
	present := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	for _, id := range contentIDs {
		if present[id] {
			out = append(out, id)
			delete(present, id)
		}
	}
	return out, nil
}

func (s *relationService) List(ctx context.Context, userID uuid.UUID, kind types.RelationKind, contentType types.ContentType, limit int) ([]uuid.UUID, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByUser(dbctx.Of(ctx), userID, kind, contentType, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	out := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ContentID)
	}
	return out, nil
}
