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

type SubtopicProgress struct {
	SubtopicID         string `json:"subtopicId"`
	Completed          bool   `json:"completed"`
	ExercisesTotal     int    `json:"exercisesTotal"`
	ExercisesCompleted int    `json:"exercisesCompleted"`
}

type ProgressService interface {
	CompleteSubtopic(ctx context.Context, userID uuid.UUID, subtopicID string) (bool, error)
	CompleteTopic(ctx context.Context, userID uuid.UUID, topicID string) (bool, error)
	SubtopicProgress(ctx context.Context, userID uuid.UUID, subtopicID string) (*SubtopicProgress, error)
}

type progressService struct {
	log       *logger.Logger
	content   repos.ContentRepo
	relations RelationService
}

func NewProgressService(log *logger.Logger, content repos.ContentRepo, relations RelationService) ProgressService {
	return &progressService{
		log:       log.With("service", "ProgressService"),
		content:   content,
		relations: relations,
	}
}

func (s *progressService) CompleteSubtopic(ctx context.Context, userID uuid.UUID, subtopicID string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	id, err := parseID(subtopicID, "subtopic_id")
	if err != nil {
		return false, err
	}
	st, err := s.content.GetSubtopicByID(dbctx.Of(ctx), id)
	if err != nil {
		return false, fmt.Errorf("load subtopic: %w", err)
	}
	if st == nil {
		return false, apierr.BadRequest("subtopic_not_found", "subtopic not found")
	}
	return s.relations.Ensure(ctx, userID, types.RelationCompletion, types.ContentSubtopic, id, nil)
}

func (s *progressService) CompleteTopic(ctx context.Context, userID uuid.UUID, topicID string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	id, err := parseID(topicID, "topic_id")
	if err != nil {
		return false, err
	}
	tp, err := s.content.GetTopicByID(dbctx.Of(ctx), id)
	if err != nil {
		return false, fmt.Errorf("load topic: %w", err)
	}
	if tp == nil {
		return false, apierr.BadRequest("topic_not_found", "topic not found")
	}
	return s.relations.Ensure(ctx, userID, types.RelationCompletion, types.ContentTopic, id, nil)
}

func (s *progressService) SubtopicProgress(ctx context.Context, userID uuid.UUID, subtopicID string) (*SubtopicProgress, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	id, err := parseID(subtopicID, "subtopic_id")
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Of(ctx)
	st, err := s.content.GetSubtopicByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load subtopic: %w", err)
	}
	if st == nil {
		return nil, apierr.NotFound("subtopic_not_found", "subtopic not found")
	}

	completed, err := s.relations.Exists(ctx, userID, types.RelationCompletion, types.ContentSubtopic, id)
	if err != nil {
		return nil, err
	}
	exerciseIDs, err := s.content.ExerciseIDsBySubtopic(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load exercises: %w", err)
	}
	done, err := s.relations.Existing(ctx, userID, types.RelationCompletion, types.ContentExercise, exerciseIDs)
	if err != nil {
		return nil, err
	}
	return &SubtopicProgress{
		SubtopicID:         id.String(),
		Completed:          completed,
		ExercisesTotal:     len(exerciseIDs),
		ExercisesCompleted: len(done),
	}, nil
}
