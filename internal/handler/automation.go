package handler

import (
	"net/http"

	"resellhub-api/internal/service"
	"resellhub-api/pkg/apierror"
	"resellhub-api/pkg/response"
)

// AutomationHandler exposes scheduled jobs for manual runs.
type AutomationHandler struct {
	expiry     *service.ExpiryService
	dispatcher *service.Dispatcher
}

// NewAutomationHandler creates a new automation handler.
func NewAutomationHandler(expiry *service.ExpiryService, dispatcher *service.Dispatcher) *AutomationHandler {
	return &AutomationHandler{expiry: expiry, dispatcher: dispatcher}
}

// RunExpiryWarnings handles POST /api/v1/automation/expiry-warnings.
// Running it again on the same day repeats the same warnings; the endpoint
// exists so operators can re-trigger after fixing a dead webhook.
func (h *AutomationHandler) RunExpiryWarnings(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r)
	if err != nil {
		response.Error(w, apierror.BadRequest("days must be a positive integer"))
		return
	}

	report, fx, err := h.expiry.RunExpiryWarnings(r.Context(), days)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	h.dispatcher.Dispatch(r.Context(), fx)
	response.OK(w, report)
}
