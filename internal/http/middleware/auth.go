package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/http/response"
	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/ctxutil"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/services"
)

const SessionCookie = "session"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth rejects requests without a live session with a JSON 401.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return am.require(func(c *gin.Context, msg string) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorEnvelope{
			Error: response.APIError{Message: msg, Code: "unauthorized"},
		})
	})
}

// RequireAuthPlain is RequireAuth for routes whose clients expect a text body.
func (am *AuthMiddleware) RequireAuthPlain() gin.HandlerFunc {
	return am.require(func(c *gin.Context, _ string) {
		c.String(http.StatusUnauthorized, "Unauthorized")
		c.Abort()
	})
}

func (am *AuthMiddleware) require(reject func(c *gin.Context, msg string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			reject(c, "missing or invalid token")
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			if _, ok := apierr.As(err); !ok {
				am.log.Error("Session lookup failed", "error", err)
			}
			reject(c, "missing or invalid token")
			return
		}
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			reject(c, "missing or invalid token")
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	return strings.TrimSpace(c.Query("token"))
}
