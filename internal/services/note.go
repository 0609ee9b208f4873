package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/gcp"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type NoteService interface {
	SetFavorite(ctx context.Context, userID uuid.UUID, noteID string, isFavorite bool) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]string, error)
	PDFURL(ctx context.Context, userID uuid.UUID, noteID string) (*SignedURL, error)
}

type noteService struct {
	log        *logger.Logger
	content    repos.ContentRepo
	relations  RelationService
	signedURLs SignedURLService
}

func NewNoteService(log *logger.Logger, content repos.ContentRepo, relations RelationService, signedURLs SignedURLService) NoteService {
	return &noteService{
		log:        log.With("service", "NoteService"),
		content:    content,
		relations:  relations,
		signedURLs: signedURLs,
	}
}

func (s *noteService) SetFavorite(ctx context.Context, userID uuid.UUID, noteID string, isFavorite bool) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	id, err := parseID(noteID, "noteId")
	if err != nil {
		return err
	}
	return s.relations.Set(ctx, userID, types.RelationFavorite, types.ContentNote, id, isFavorite)
}

func (s *noteService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ids, err := s.relations.List(ctx, userID, types.RelationFavorite, types.ContentNote, 0)
	if err != nil {
		return nil, err
	}
	return idStrings(ids), nil
}

func (s *noteService) PDFURL(ctx context.Context, userID uuid.UUID, noteID string) (*SignedURL, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	id, err := parseID(noteID, "noteId")
	if err != nil {
		return nil, err
	}
	note, err := s.content.GetNoteByID(dbctx.Of(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load note: %w", err)
	}
	if note == nil {
		return nil, apierr.NotFound("note_not_found", "note not found")
	}
	key := strings.TrimSpace(note.PDFStorageKey)
	if key == "" {
		return nil, apierr.NotFound("note_pdf_missing", "note has no PDF")
	}
	return s.signedURLs.Get(ctx, gcp.BucketCategoryNotes, key)
}
