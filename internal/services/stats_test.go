package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/maturamate/maturamate-backend/internal/domain"
)

func TestClampDays(t *testing.T) {
	t.Parallel()
	cases := map[int]int{0: 7, -3: 7, 1: 1, 30: 30, 90: 90, 365: 90}
	for in, want := range cases {
		if got := clampDays(in); got != want {
			t.Fatalf("clampDays(%d): got=%d want=%d", in, got, want)
		}
	}
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC)
	svc := NewStatsService(env.log, env.sessions, env.relRepo, func() time.Time { return now })
	userID := env.user(t)
	dbc := testDBC()

	sessions := []struct {
		start time.Time
		dur   time.Duration
	}{
		{now.Add(-2 * time.Hour), 30 * time.Minute},
		{now.Add(-26 * time.Hour), 10 * time.Minute},
		{now.AddDate(0, 0, -20), time.Hour}, // outside the window
	}
	for _, s := range sessions {
		if err := env.sessions.Create(dbc, &types.StudySession{
			ID:           uuid.New(),
			UserID:       userID,
			NoteID:       uuid.New(),
			StartedAt:    s.start,
			LastActiveAt: s.start.Add(s.dur),
		}); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}
	if _, err := env.relations.Ensure(ctx, userID, types.RelationCompletion, types.ContentSubtopic, uuid.New(), nil); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if _, err := env.relations.Toggle(ctx, userID, types.RelationFlag, types.ContentExercise, uuid.New()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	got, err := svc.Stats(ctx, userID, 0)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got.Days != 7 || len(got.Daily) != 7 {
		t.Fatalf("unexpected window: days=%d daily=%d", got.Days, len(got.Daily))
	}
	if got.SessionCount != 2 || got.TotalStudySeconds != 40*60 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	last := got.Daily[6]
	if last.Date != "2026-06-10" || last.Seconds != 30*60 {
		t.Fatalf("unexpected today bucket: %+v", last)
	}
	if got.Daily[5].Seconds != 10*60 {
		t.Fatalf("unexpected yesterday bucket: %+v", got.Daily[5])
	}
	if got.CompletedSubtopics != 1 || got.FlaggedExercises != 1 || got.CompletedTopics != 0 || got.FavoriteNotes != 0 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}
