package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondAPIError writes classified errors as-is. Anything else is logged and
// reported as a generic 500 so store or provider detail never reaches clients.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	if ae, ok := apierr.As(err); ok && ae.Status != 0 && ae.Status != http.StatusInternalServerError {
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	if log != nil {
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{
		Error: APIError{Message: "internal server error", Code: "internal_error"},
	})
}
