package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/http/response"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/services"
)

const maxWebhookBody = 64 << 10

type BillingHandler struct {
	log     *logger.Logger
	billing services.BillingService
}

func NewBillingHandler(log *logger.Logger, billing services.BillingService) *BillingHandler {
	return &BillingHandler{log: log.With("handler", "BillingHandler"), billing: billing}
}

// POST /api/stripe/checkout
func (h *BillingHandler) Checkout(c *gin.Context) {
	var req struct {
		PlanType         string   `json:"planType"`
		SelectedSubjects []string `json:"selectedSubjects"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.billing.CreateCheckout(c.Request.Context(), currentUser(c), req.PlanType, req.SelectedSubjects)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/stripe/webhook
// The raw body is needed for signature verification, so it is never bound.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	if err := h.billing.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"received": true})
}
