package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
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

// RespondServiceError maps the typed error taxonomy onto the wire. Anything
// untyped is a store or internal failure and surfaces as a bare 500 without
// leaking the underlying message.
func RespondServiceError(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	if status == http.StatusInternalServerError {
		RespondError(c, status, apierr.CodeOf(err), nil)
		return
	}
	RespondError(c, status, apierr.CodeOf(err), err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
