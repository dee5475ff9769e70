package handler

import (
	"errors"

	"resellhub-api/internal/service"
	"resellhub-api/pkg/apierror"
)

// mapServiceError translates service-level errors into the API error
// taxonomy. Unknown errors come back as 500 without leaking internals.
func mapServiceError(err error) *apierror.Error {
	switch {
	case errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrProfileNotFound):
		return apierror.NotFound(err.Error())
	case errors.Is(err, service.ErrOutOfStock):
		return apierror.OutOfStock(err.Error())
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAccountInUse):
		return apierror.Conflict(err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return apierror.BadRequest(err.Error())
	default:
		return apierror.InternalError("an unexpected error occurred")
	}
}
