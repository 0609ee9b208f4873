package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/maturamate/maturamate-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, slug, priceID string) *types.Subject {
	tb.Helper()
	s := &types.Subject{ID: uuid.New(), Slug: slug, Name: slug, StripePriceID: priceID}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) *types.Topic {
	tb.Helper()
	tp := &types.Topic{ID: uuid.New(), SubjectID: subjectID, Name: "topic"}
	if err := tx.WithContext(ctx).Create(tp).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return tp
}

func SeedSubtopic(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID) *types.Subtopic {
	tb.Helper()
	st := &types.Subtopic{ID: uuid.New(), TopicID: topicID, Name: "subtopic"}
	if err := tx.WithContext(ctx).Create(st).Error; err != nil {
		tb.Fatalf("seed subtopic: %v", err)
	}
	return st
}

func SeedNote(tb testing.TB, ctx context.Context, tx *gorm.DB, subtopicID uuid.UUID, pdfKey string) *types.Note {
	tb.Helper()
	n := &types.Note{ID: uuid.New(), SubtopicID: subtopicID, Title: "note", PDFStorageKey: pdfKey}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed note: %v", err)
	}
	return n
}

func SeedExercise(tb testing.TB, ctx context.Context, tx *gorm.DB, subtopicID uuid.UUID) *types.Exercise {
	tb.Helper()
	e := &types.Exercise{ID: uuid.New(), SubtopicID: subtopicID, Title: "exercise"}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed exercise: %v", err)
	}
	return e
}

func SeedSimulation(tb testing.TB, ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, slug string) *types.Simulation {
	tb.Helper()
	s := &types.Simulation{ID: uuid.New(), Slug: slug, SubjectID: subjectID, Title: slug, DurationMinutes: 180}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed simulation: %v", err)
	}
	return s
}
