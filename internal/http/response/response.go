package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
	"github.com/yungbote/peptide-insights-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
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

// RespondServiceError maps a service error onto its HTTP status. The cause
// of a 5xx is attached to the gin context for the access log and never
// echoed to the client.
func RespondServiceError(c *gin.Context, err error) {
	ae := apierr.FromError(err)
	_ = c.Error(err)
	switch {
	case ae.Status == http.StatusServiceUnavailable:
		RespondError(c, ae.Status, ae.Code, pkgerrors.ErrStoreUnavailable)
	case ae.Status >= http.StatusInternalServerError:
		RespondError(c, ae.Status, ae.Code, errInternal)
	default:
		RespondError(c, ae.Status, ae.Code, ae)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: payload})
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: payload})
}

var errInternal = errors.New("internal server error")
