package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/http/response"
	"github.com/maturamate/maturamate-backend/internal/platform/ctxutil"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/services"
)

const refreshTokenHeader = "X-Refresh-Token"

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthHandler struct {
	log  *logger.Logger
	auth services.AuthService
}

func NewAuthHandler(log *logger.Logger, auth services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), auth: auth}
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.auth.Register(c.Request.Context(), services.RegisterInput(req))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "user_id": created.ID})
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /api/refresh takes the token from X-Refresh-Token or the JSON body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := strings.TrimSpace(c.GetHeader(refreshTokenHeader))
	if token == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		token = req.RefreshToken
	}
	pair, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /api/logout revokes only the calling session.
func (h *AuthHandler) Logout(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.auth.Logout(c.Request.Context(), rd.SessionID); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
