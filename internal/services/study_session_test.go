package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/data/repos/testutil"
	types "github.com/maturamate/maturamate-backend/internal/domain"
)

func seedNote(t *testing.T, env *testEnv) *types.Note {
	t.Helper()
	ctx := context.Background()
	subject := testutil.SeedSubject(t, ctx, env.db, "chem-"+uuid.NewString()[:6], "")
	topic := testutil.SeedTopic(t, ctx, env.db, subject.ID)
	sub := testutil.SeedSubtopic(t, ctx, env.db, topic.ID)
	return testutil.SeedNote(t, ctx, env.db, sub.ID, "")
}

func TestStudySessionContinuation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clock := newFakeClock(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	svc := NewStudySessionService(env.log, env.content, env.sessions, clock.Now)

	userID := env.user(t)
	note := seedNote(t, env)

	first, err := svc.Start(ctx, userID, note.ID.String())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	clock.Advance(2 * time.Minute)
	again, err := svc.Start(ctx, userID, note.ID.String())
	if err != nil {
		t.Fatalf("Start again: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("expected continuation within window: first=%s again=%s", first.ID, again.ID)
	}

	// A ping keeps the session alive past the original start.
	clock.Advance(4 * time.Minute)
	if _, err := svc.Touch(ctx, userID, first.ID.String(), SessionActionPing); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	clock.Advance(4 * time.Minute)
	resumed, err := svc.Start(ctx, userID, note.ID.String())
	if err != nil {
		t.Fatalf("Start after ping: %v", err)
	}
	if resumed.ID != first.ID {
		t.Fatalf("expected ping to extend the window")
	}

	clock.Advance(ContinuationWindow + time.Second)
	fresh, err := svc.Start(ctx, userID, note.ID.String())
	if err != nil {
		t.Fatalf("Start after window: %v", err)
	}
	if fresh.ID == first.ID {
		t.Fatalf("expected a new session after the window lapsed")
	}
}

func TestStudySessionTouchIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clock := newFakeClock(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	svc := NewStudySessionService(env.log, env.content, env.sessions, clock.Now)

	owner, other := env.user(t), env.user(t)
	note := seedNote(t, env)
	session, err := svc.Start(ctx, owner, note.ID.String())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	clock.Advance(time.Minute)
	_, err = svc.Touch(ctx, other, session.ID.String(), SessionActionPing)
	wantAPIError(t, err, http.StatusNotFound, "study_session_not_found")

	stored, err := env.sessions.GetByID(testDBC(), session.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.LastActiveAt.Equal(session.LastActiveAt) {
		t.Fatalf("foreign touch mutated the session: %s -> %s", session.LastActiveAt, stored.LastActiveAt)
	}

	touched, err := svc.Touch(ctx, owner, session.ID.String(), SessionActionEnd)
	if err != nil {
		t.Fatalf("owner Touch: %v", err)
	}
	if !touched.LastActiveAt.Equal(clock.Now()) {
		t.Fatalf("expected last_active_at=%s got %s", clock.Now(), touched.LastActiveAt)
	}
}

func TestStudySessionValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewStudySessionService(env.log, env.content, env.sessions, nil)
	userID := env.user(t)

	_, err := svc.Start(ctx, userID, "")
	wantAPIError(t, err, http.StatusBadRequest, "missing_noteId")

	_, err = svc.Start(ctx, userID, uuid.NewString())
	wantAPIError(t, err, http.StatusBadRequest, "note_not_found")

	_, err = svc.Touch(ctx, userID, uuid.NewString(), "pause")
	wantAPIError(t, err, http.StatusBadRequest, "invalid_action")

	_, err = svc.Touch(ctx, userID, "garbage", SessionActionPing)
	wantAPIError(t, err, http.StatusNotFound, "study_session_not_found")

	_, err = svc.Start(ctx, uuid.Nil, uuid.NewString())
	wantAPIError(t, err, http.StatusUnauthorized, "")
}
