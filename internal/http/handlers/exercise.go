package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/http/response"
	"github.com/maturamate/maturamate-backend/internal/platform/envutil"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/services"
)

type ExerciseHandler struct {
	log       *logger.Logger
	exercises services.ExerciseService
}

func NewExerciseHandler(log *logger.Logger, exercises services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{log: log.With("handler", "ExerciseHandler"), exercises: exercises}
}

// POST /api/exercises/flag-exercise
func (h *ExerciseHandler) ToggleExerciseFlag(c *gin.Context) {
	var req struct {
		ExerciseID string `json:"exerciseId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	flagged, err := h.exercises.ToggleExerciseFlag(c.Request.Context(), currentUser(c), req.ExerciseID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": flagMessage("Exercise", flagged), "flagged": flagged})
}

// GET /api/exercises/flag-exercise?exerciseId=
func (h *ExerciseHandler) GetExerciseFlag(c *gin.Context) {
	flagged, err := h.exercises.IsExerciseFlagged(c.Request.Context(), currentUser(c), c.Query("exerciseId"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"flagged": flagged})
}

// POST /api/exercises/flag-card
func (h *ExerciseHandler) ToggleCardFlag(c *gin.Context) {
	var req struct {
		CardID string `json:"cardId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	flagged, err := h.exercises.ToggleCardFlag(c.Request.Context(), currentUser(c), req.CardID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": flagMessage("Card", flagged), "flagged": flagged})
}

// GET /api/exercises/flag-card?cardId=
func (h *ExerciseHandler) GetCardFlag(c *gin.Context) {
	flagged, err := h.exercises.IsCardFlagged(c.Request.Context(), currentUser(c), c.Query("cardId"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"flagged": flagged})
}

// GET /api/exercises/flagged-bulk?exerciseIds=a,b&cardIds=c
func (h *ExerciseHandler) FlaggedBulk(c *gin.Context) {
	res, err := h.exercises.FlaggedBulk(
		c.Request.Context(),
		currentUser(c),
		envutil.SplitCSV(c.Query("exerciseIds")),
		envutil.SplitCSV(c.Query("cardIds")),
	)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/exercises/flagged
func (h *ExerciseHandler) ListFlagged(c *gin.Context) {
	res, err := h.exercises.ListFlagged(c.Request.Context(), currentUser(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/exercises/complete
func (h *ExerciseHandler) Complete(c *gin.Context) {
	var req struct {
		ExerciseID string `json:"exerciseId"`
		IsCorrect  *bool  `json:"isCorrect"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if _, err := h.exercises.CompleteExercise(c.Request.Context(), currentUser(c), req.ExerciseID, req.IsCorrect); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "message": "Exercise marked as complete"})
}

func flagMessage(what string, flagged bool) string {
	if flagged {
		return what + " flagged"
	}
	return what + " unflagged"
}
