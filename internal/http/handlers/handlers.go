package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/platform/ctxutil"
)

// currentUser is set by the auth middleware; handlers never derive it themselves.
func currentUser(c *gin.Context) uuid.UUID {
	return ctxutil.UserID(c.Request.Context())
}
