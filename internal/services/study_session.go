package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

// ContinuationWindow is how long after its last activity a session can still
// be resumed instead of starting a new one.
const ContinuationWindow = 5 * time.Minute

const (
	SessionActionPing = "ping"
	SessionActionEnd  = "end"
)

type StudySessionService interface {
	Start(ctx context.Context, userID uuid.UUID, noteID string) (*types.StudySession, error)
	Touch(ctx context.Context, userID uuid.UUID, sessionID, action string) (*types.StudySession, error)
}

type studySessionService struct {
	log      *logger.Logger
	content  repos.ContentRepo
	sessions repos.StudySessionRepo
	now      func() time.Time
}

func NewStudySessionService(log *logger.Logger, content repos.ContentRepo, sessions repos.StudySessionRepo, now func() time.Time) StudySessionService {
	if now == nil {
		now = time.Now
	}
	return &studySessionService{
		log:      log.With("service", "StudySessionService"),
		content:  content,
		sessions: sessions,
		now:      now,
	}
}

func (s *studySessionService) Start(ctx context.Context, userID uuid.UUID, noteID string) (*types.StudySession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	id, err := parseID(noteID, "noteId")
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Of(ctx)

	note, err := s.content.GetNoteByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load note: %w", err)
	}
	if note == nil {
		return nil, apierr.BadRequest("note_not_found", "note not found")
	}

	now := s.now().UTC()
	latest, err := s.sessions.LatestForUserNote(dbc, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load latest study session: %w", err)
	}
	if latest != nil && now.Sub(latest.LastActiveAt) < ContinuationWindow {
		return latest, nil
	}

	session := &types.StudySession{
		ID:           uuid.New(),
		UserID:       userID,
		NoteID:       id,
		StartedAt:    now,
		LastActiveAt: now,
	}
	if err := s.sessions.Create(dbc, session); err != nil {
		return nil, fmt.Errorf("create study session: %w", err)
	}
	s.log.Debug("Study session started", "session_id", session.ID, "note_id", id)
	return session, nil
}

// Touch records activity on a session the user owns. "end" stamps the same
// way as "ping"; a session simply stops being continued once the window lapses.
func (s *studySessionService) Touch(ctx context.Context, userID uuid.UUID, sessionID, action string) (*types.StudySession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	action = strings.ToLower(strings.TrimSpace(action))
	if action != SessionActionPing && action != SessionActionEnd {
		return nil, apierr.BadRequest("invalid_action", "action must be ping or end")
	}
	id, err := uuid.Parse(strings.TrimSpace(sessionID))
	if err != nil {
		return nil, apierr.NotFound("study_session_not_found", "study session not found")
	}
	dbc := dbctx.Of(ctx)

	now := s.now().UTC()
	n, err := s.sessions.TouchOwned(dbc, userID, id, now)
	if err != nil {
		return nil, fmt.Errorf("touch study session: %w", err)
	}
	if n == 0 {
		return nil, apierr.NotFound("study_session_not_found", "study session not found")
	}
	session, err := s.sessions.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("reload study session: %w", err)
	}
	if session == nil {
		return nil, apierr.NotFound("study_session_not_found", "study session not found")
	}
	return session, nil
}
