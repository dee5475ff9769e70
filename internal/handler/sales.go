package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"resellhub-api/internal/middleware"
	"resellhub-api/internal/model"
	"resellhub-api/internal/service"
	"resellhub-api/pkg/apierror"
	"resellhub-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// SalesHandler handles sale lifecycle HTTP requests.
type SalesHandler struct {
	sales      *service.SaleService
	expiry     *service.ExpiryService
	dispatcher *service.Dispatcher
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(sales *service.SaleService, expiry *service.ExpiryService, dispatcher *service.Dispatcher) *SalesHandler {
	return &SalesHandler{
		sales:      sales,
		expiry:     expiry,
		dispatcher: dispatcher,
	}
}

// actorID resolves who performed the request: the session user when
// authenticated with a token, otherwise the agent id the body claims.
func actorID(r *http.Request, bodyAgentID int64) int64 {
	if s := middleware.GetSessionFromContext(r.Context()); s != nil {
		return s.UserID
	}
	return bodyAgentID
}

// daysParam parses the optional days query parameter. Zero means "use the
// configured window".
func daysParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return 0, strconv.ErrSyntax
	}
	return days, nil
}

func saleID(r *http.Request) (int64, *apierror.Error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest("invalid sale id")
	}
	return id, nil
}

type createSaleRequest struct {
	ClientID         int64  `json:"client_id"`
	SalesAttributeID int64  `json:"sales_attribute_id"`
	AgentID          int64  `json:"agent_id"`
	StartDate        string `json:"start_date"`
}

// CreateSale handles POST /api/v1/sales
func (h *SalesHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if req.ClientID <= 0 || req.SalesAttributeID <= 0 {
		response.Error(w, apierror.ValidationError("missing required fields",
			apierror.FieldError{Field: "client_id", Message: "required"},
			apierror.FieldError{Field: "sales_attribute_id", Message: "required"},
		))
		return
	}

	start := time.Now()
	if req.StartDate != "" {
		parsed, err := time.Parse(model.DateLayout, req.StartDate)
		if err != nil {
			response.Error(w, apierror.BadRequest("start_date must be YYYY-MM-DD"))
			return
		}
		start = parsed
	}

	agent := actorID(r, req.AgentID)
	result, err := h.sales.CreateSale(r.Context(), service.CreateSaleInput{
		ClientID:         req.ClientID,
		SalesAttributeID: req.SalesAttributeID,
		AgentID:          agent,
		StartDate:        start,
	})
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Effects)
	response.Created(w, h.view(result.Sale))
}

// GetSale handles GET /api/v1/sales/{id}
func (h *SalesHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, apiErr := saleID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	sale, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}
	response.OK(w, h.view(sale))
}

type actorRequest struct {
	AgentID int64 `json:"agent_id"`
}

// RenewSale handles POST /api/v1/sales/{id}/renew
func (h *SalesHandler) RenewSale(w http.ResponseWriter, r *http.Request) {
	id, apiErr := saleID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var req actorRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	result, err := h.sales.RenewSale(r.Context(), id, actorID(r, req.AgentID))
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Effects)
	response.OK(w, h.view(result.Sale))
}

// ExpelSale handles POST /api/v1/sales/{id}/expel
func (h *SalesHandler) ExpelSale(w http.ResponseWriter, r *http.Request) {
	id, apiErr := saleID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var req actorRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	result, err := h.sales.ExpelSale(r.Context(), id, actorID(r, req.AgentID))
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Effects)
	response.OK(w, h.view(result.Sale))
}

type reactivateRequest struct {
	ProfileID int64 `json:"profile_id"`
	AgentID   int64 `json:"agent_id"`
}

// ReactivateSale handles POST /api/v1/sales/{id}/reactivate
func (h *SalesHandler) ReactivateSale(w http.ResponseWriter, r *http.Request) {
	id, apiErr := saleID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var req reactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if req.ProfileID <= 0 {
		response.Error(w, apierror.BadRequest("profile_id is required"))
		return
	}

	result, err := h.sales.ReactivateSale(r.Context(), id, req.ProfileID, actorID(r, req.AgentID))
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Effects)
	response.OK(w, h.view(result.Sale))
}

// DeleteSale handles DELETE /api/v1/sales/{id}
func (h *SalesHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, apiErr := saleID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var req actorRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	result, err := h.sales.DeleteSale(r.Context(), id, actorID(r, req.AgentID))
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Effects)
	response.NoContent(w)
}

// ListExpiring handles GET /api/v1/sales/expiring. An optional days query
// parameter overrides the configured warning window.
func (h *SalesHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r)
	if err != nil {
		response.Error(w, apierror.BadRequest("days must be a positive integer"))
		return
	}

	sales, err := h.expiry.FindExpiringSoon(r.Context(), days)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}
	response.OK(w, map[string]interface{}{
		"count": len(sales),
		"sales": sales,
	})
}

// saleView is the wire shape of a sale. Status is the derived one; dates are
// plain calendar days.
type saleView struct {
	ID               int64            `json:"id"`
	ClientID         int64            `json:"client_id"`
	AgentID          int64            `json:"agent_id"`
	ProfileID        *int64           `json:"profile_id"`
	SalesAttributeID int64            `json:"sales_attribute_id"`
	Cost             string           `json:"cost"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	Status           model.SaleStatus `json:"status"`
}

func (h *SalesHandler) view(sale *model.Sale) saleView {
	return saleView{
		ID:               sale.ID,
		ClientID:         sale.ClientID,
		AgentID:          sale.AgentID,
		ProfileID:        sale.ProfileID,
		SalesAttributeID: sale.SalesAttributeID,
		Cost:             sale.Cost.StringFixed(2),
		StartDate:        sale.StartDate.Format(model.DateLayout),
		EndDate:          sale.EndDate.Format(model.DateLayout),
		Status:           sale.EffectiveStatus(time.Now()),
	}
}
