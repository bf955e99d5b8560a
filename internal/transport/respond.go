package transport

import (
	"context"
	"errors"
	"net/http"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/middleware"
	"burns-farm-shop/internal/repository"
	"burns-farm-shop/internal/service"

	"go.uber.org/zap"
)

// errorStatus maps domain errors to HTTP status codes. Anything unknown is a 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrInvitationNotFound),
		errors.Is(err, service.ErrProductUnavailable):
		return http.StatusNotFound

	case errors.Is(err, repository.ErrOrderAlreadyExists),
		errors.Is(err, repository.ErrProductAlreadyExists),
		errors.Is(err, repository.ErrUserAlreadyExists),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvitationNotPending):
		return http.StatusConflict

	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrUnknownAccommodation),
		errors.Is(err, service.ErrUnknownDeliverySlot),
		errors.Is(err, service.ErrDeliveryDateUnavailable),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrUnknownChannel),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidCard):
		return http.StatusUnprocessableEntity

	case errors.Is(err, service.ErrInvitationExpired):
		return http.StatusGone

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondWithServiceError writes the envelope for err. Validation failures list their fields;
// internal errors are logged and reported with the fallback message only.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, status, fallback)
		return
	}

	logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	middleware.RespondWithError(w, status, err.Error())
}

// decodeRequest decodes and validates the body into v, writing the error response itself.
// It reports whether the handler should continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	err := middleware.DecodeAndValidate(w, r, v)
	if err == nil {
		return true
	}

	logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))

	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return false
	}

	var unknown *domain.UnknownValueError
	if errors.As(err, &unknown) {
		middleware.RespondWithError(w, http.StatusBadRequest, unknown.Error())
		return false
	}

	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
	return false
}
