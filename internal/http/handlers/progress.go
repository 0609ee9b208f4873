package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/http/response"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progress: progress}
}

// POST /api/subtopics/complete
func (h *ProgressHandler) CompleteSubtopic(c *gin.Context) {
	var req struct {
		SubtopicID string `json:"subtopic_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.progress.CompleteSubtopic(c.Request.Context(), currentUser(c), req.SubtopicID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	msg := "Subtopic marked as complete"
	if !created {
		msg = "Subtopic already completed"
	}
	response.RespondOK(c, gin.H{"success": true, "message": msg})
}

// POST /api/topics/complete
func (h *ProgressHandler) CompleteTopic(c *gin.Context) {
	var req struct {
		TopicID string `json:"topic_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.progress.CompleteTopic(c.Request.Context(), currentUser(c), req.TopicID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	msg := "Topic marked as complete"
	if !created {
		msg = "Topic already completed"
	}
	response.RespondOK(c, gin.H{"success": true, "message": msg})
}

// GET /api/subtopics/:id/progress
func (h *ProgressHandler) SubtopicProgress(c *gin.Context) {
	res, err := h.progress.SubtopicProgress(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}
