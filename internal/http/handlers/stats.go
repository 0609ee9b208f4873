package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/http/response"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/services"
)

type StatsHandler struct {
	log   *logger.Logger
	stats services.StatsService
}

func NewStatsHandler(log *logger.Logger, stats services.StatsService) *StatsHandler {
	return &StatsHandler{log: log.With("handler", "StatsHandler"), stats: stats}
}

// GET /api/dashboard/stats?days=N
func (h *StatsHandler) Dashboard(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))
	res, err := h.stats.Stats(c.Request.Context(), currentUser(c), days)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}
