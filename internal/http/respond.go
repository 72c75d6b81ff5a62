package http

import (
	"errors"
	"net/http"

	sentry "github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/social-service/internal/log"
	"github.com/tazhibayda/social-service/internal/service"
	"go.uber.org/zap"
)

// envelope is the uniform response shape: failures always carry error,
// successes may carry message and data. No partial success is ever
// reported as success.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondErr(c *gin.Context, status int, msg string) {
	c.JSON(status, envelope{Success: false, Error: msg})
}

// respondServiceErr maps the service error taxonomy onto status codes.
// Anything outside the taxonomy is a storage failure: logged, reported
// and returned as a generic 500.
func respondServiceErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrSelfConnection),
		errors.Is(err, service.ErrAlreadyPending),
		errors.Is(err, service.ErrAlreadyConnected):
		respondErr(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondErr(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondErr(c, http.StatusNotFound, err.Error())
	default:
		log.L().Error("storage failure",
			zap.String("path", c.FullPath()), zap.Error(err))
		if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
			hub.CaptureException(err)
		}
		respondErr(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
}
