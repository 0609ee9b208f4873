package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/http/response"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/services"
)

type SimulationHandler struct {
	log         *logger.Logger
	simulations services.SimulationService
}

func NewSimulationHandler(log *logger.Logger, simulations services.SimulationService) *SimulationHandler {
	return &SimulationHandler{log: log.With("handler", "SimulationHandler"), simulations: simulations}
}

// POST /api/simulations/flag
// body: {"simulationId": "<slug>"}
func (h *SimulationHandler) ToggleFlag(c *gin.Context) {
	var req struct {
		SimulationID string `json:"simulationId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	flagged, err := h.simulations.ToggleFlag(c.Request.Context(), currentUser(c), req.SimulationID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"flagged": flagged})
}

// GET /api/simulations/flagged
func (h *SimulationHandler) ListFlagged(c *gin.Context) {
	slugs, err := h.simulations.ListFlagged(c.Request.Context(), currentUser(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"flaggedSimulations": slugs})
}

// POST /api/simulations/start
func (h *SimulationHandler) Start(c *gin.Context) {
	var req struct {
		SimulationID string `json:"simulationId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	attempt, err := h.simulations.Start(c.Request.Context(), currentUser(c), req.SimulationID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "message": "Simulation started", "attempt": attempt})
}
