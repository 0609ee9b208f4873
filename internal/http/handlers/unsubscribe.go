package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/http/response"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/services"
)

type UnsubscribeHandler struct {
	log   *logger.Logger
	prefs services.EmailPreferenceService
}

func NewUnsubscribeHandler(log *logger.Logger, prefs services.EmailPreferenceService) *UnsubscribeHandler {
	return &UnsubscribeHandler{log: log.With("handler", "UnsubscribeHandler"), prefs: prefs}
}

// GET /api/unsubscribe?email=&token=
func (h *UnsubscribeHandler) Unsubscribe(c *gin.Context) {
	if err := h.prefs.Unsubscribe(c.Request.Context(), c.Query("email"), c.Query("token")); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}
