package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/http/response"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/services"
)

type NoteHandler struct {
	log      *logger.Logger
	notes    services.NoteService
	sessions services.StudySessionService
}

func NewNoteHandler(log *logger.Logger, notes services.NoteService, sessions services.StudySessionService) *NoteHandler {
	return &NoteHandler{log: log.With("handler", "NoteHandler"), notes: notes, sessions: sessions}
}

// POST /api/notes/favorite
func (h *NoteHandler) SetFavorite(c *gin.Context) {
	var req struct {
		NoteID     string `json:"noteId"`
		IsFavorite bool   `json:"isFavorite"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.notes.SetFavorite(c.Request.Context(), currentUser(c), req.NoteID, req.IsFavorite); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// GET /api/notes/favorites
func (h *NoteHandler) ListFavorites(c *gin.Context) {
	ids, err := h.notes.ListFavorites(c.Request.Context(), currentUser(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"favoriteNotes": ids})
}

// GET /api/notes/:noteId/pdf-url
func (h *NoteHandler) PDFURL(c *gin.Context) {
	signed, err := h.notes.PDFURL(c.Request.Context(), currentUser(c), c.Param("noteId"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, signed)
}

// POST /api/notes/study-session
func (h *NoteHandler) StartStudySession(c *gin.Context) {
	var req struct {
		NoteID string `json:"noteId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, err := h.sessions.Start(c.Request.Context(), currentUser(c), req.NoteID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"sessionId": session.ID, "startedAt": session.StartedAt})
}

// PATCH /api/notes/study-session/:sessionId
// body: {"action": "ping"|"end"} as JSON or form data
func (h *NoteHandler) TouchStudySession(c *gin.Context) {
	var req struct {
		Action string `json:"action" form:"action"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, err := h.sessions.Touch(c.Request.Context(), currentUser(c), c.Param("sessionId"), req.Action)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"sessionId":    session.ID,
		"lastActiveAt": session.LastActiveAt,
		"action":       req.Action,
	})
}
