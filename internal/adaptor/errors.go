package adaptor

import (
	"errors"
	"net/http"

	"otp-service/internal/apperr"
	"otp-service/pkg/utils"

	"go.uber.org/zap"
)

// respondError maps the service error taxonomy to HTTP status codes.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		log.Warn(operation+" rejected: validation", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, apperr.ErrConflict):
		log.Warn(operation+" rejected: conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, apperr.ErrUnauthenticated):
		log.Warn(operation + " rejected: unauthenticated")
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, apperr.ErrForbidden):
		log.Warn(operation + " rejected: forbidden")
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, apperr.ErrNotFound):
		log.Warn(operation+" rejected: not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, apperr.ErrDelivery):
		log.Error(operation+" failed: delivery", zap.Error(err))
		utils.ResponseBadGateway(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
