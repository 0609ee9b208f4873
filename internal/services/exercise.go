package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type FlaggedContent struct {
	Exercises []string `json:"flaggedExercises"`
	Cards     []string `json:"flaggedCards"`
}

type ExerciseService interface {
	ToggleExerciseFlag(ctx context.Context, userID uuid.UUID, exerciseID string) (bool, error)
	IsExerciseFlagged(ctx context.Context, userID uuid.UUID, exerciseID string) (bool, error)
	ToggleCardFlag(ctx context.Context, userID uuid.UUID, cardID string) (bool, error)
	IsCardFlagged(ctx context.Context, userID uuid.UUID, cardID string) (bool, error)
	FlaggedBulk(ctx context.Context, userID uuid.UUID, exerciseIDs, cardIDs []string) (*FlaggedContent, error)
	ListFlagged(ctx context.Context, userID uuid.UUID) (*FlaggedContent, error)
	CompleteExercise(ctx context.Context, userID uuid.UUID, exerciseID string, isCorrect *bool) (bool, error)
}

type exerciseService struct {
	log       *logger.Logger
	relations RelationService
}

func NewExerciseService(log *logger.Logger, relations RelationService) ExerciseService {
	return &exerciseService{log: log.With("service", "ExerciseService"), relations: relations}
}

func (s *exerciseService) ToggleExerciseFlag(ctx context.Context, userID uuid.UUID, exerciseID string) (bool, error) {
	return s.toggle(ctx, userID, types.ContentExercise, exerciseID, "exerciseId")
}

func (s *exerciseService) IsExerciseFlagged(ctx context.Context, userID uuid.UUID, exerciseID string) (bool, error) {
	return s.exists(ctx, userID, types.ContentExercise, exerciseID, "exerciseId")
}

func (s *exerciseService) ToggleCardFlag(ctx context.Context, userID uuid.UUID, cardID string) (bool, error) {
	return s.toggle(ctx, userID, types.ContentExerciseCard, cardID, "cardId")
}

func (s *exerciseService) IsCardFlagged(ctx context.Context, userID uuid.UUID, cardID string) (bool, error) {
	return s.exists(ctx, userID, types.ContentExerciseCard, cardID, "cardId")
}

func (s *exerciseService) toggle(ctx context.Context, userID uuid.UUID, contentType types.ContentType, raw, field string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	id, err := parseID(raw, field)
	if err != nil {
		return false, err
	}
	return s.relations.Toggle(ctx, userID, types.RelationFlag, contentType, id)
}

func (s *exerciseService) exists(ctx context.Context, userID uuid.UUID, contentType types.ContentType, raw, field string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	id, err := parseID(raw, field)
	if err != nil {
		return false, err
	}
	return s.relations.Exists(ctx, userID, types.RelationFlag, contentType, id)
}

// FlaggedBulk ignores malformed ids rather than failing the page.
func (s *exerciseService) FlaggedBulk(ctx context.Context, userID uuid.UUID, exerciseIDs, cardIDs []string) (*FlaggedContent, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	exercises, err := s.relations.Existing(ctx, userID, types.RelationFlag, types.ContentExercise, parseIDs(exerciseIDs))
	if err != nil {
		return nil, err
	}
	cards, err := s.relations.Existing(ctx, userID, types.RelationFlag, types.ContentExerciseCard, parseIDs(cardIDs))
	if err != nil {
		return nil, err
	}
	return &FlaggedContent{Exercises: idStrings(exercises), Cards: idStrings(cards)}, nil
}

func (s *exerciseService) ListFlagged(ctx context.Context, userID uuid.UUID) (*FlaggedContent, error) {
	exercises, err := s.relations.List(ctx, userID, types.RelationFlag, types.ContentExercise, 0)
	if err != nil {
		return nil, err
	}
	cards, err := s.relations.List(ctx, userID, types.RelationFlag, types.ContentExerciseCard, 0)
	if err != nil {
		return nil, err
	}
	return &FlaggedContent{Exercises: idStrings(exercises), Cards: idStrings(cards)}, nil
}

func (s *exerciseService) CompleteExercise(ctx context.Context, userID uuid.UUID, exerciseID string, isCorrect *bool) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	id, err := parseID(exerciseID, "exerciseId")
	if err != nil {
		return false, err
	}
	return s.relations.Ensure(ctx, userID, types.RelationCompletion, types.ContentExercise, id, isCorrect)
}
