package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aurelle/marketing-backend/internal/apierr"
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

// RespondServiceError maps a service error onto the envelope using its
// apierr status and code, hiding internals behind a generic message for 500s.
func RespondServiceError(c *gin.Context, err error) {
	status, code := apierr.StatusCode(err)
	if status == http.StatusInternalServerError {
		RespondError(c, status, code, nil)
		return
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
