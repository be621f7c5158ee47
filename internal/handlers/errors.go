package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/standup-api/internal/errors"
	"github.com/yukikurage/standup-api/internal/logger"
	"github.com/yukikurage/standup-api/internal/services"
)

// respondServiceError maps service error kinds onto API errors.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		apierrors.InvalidState(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAIUnavailable):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrUpstream):
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("upstream failure")
		apierrors.UpstreamFailure(c, "")
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		apierrors.InternalError(c, "")
	}
}
