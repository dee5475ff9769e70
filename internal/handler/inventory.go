package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"resellhub-api/internal/model"
	"resellhub-api/internal/service"
	"resellhub-api/pkg/apierror"
	"resellhub-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// InventoryHandler handles inventory account and profile HTTP requests.
type InventoryHandler struct {
	inventory  *service.InventoryService
	dispatcher *service.Dispatcher
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventory *service.InventoryService, dispatcher *service.Dispatcher) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, dispatcher: dispatcher}
}

func pathID(r *http.Request, name string) (int64, *apierror.Error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest("invalid " + name)
	}
	return id, nil
}

type provisionAccountRequest struct {
	ProductID    int64  `json:"product_id"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ProfileCount int    `json:"profile_count"`
	AgentID      int64  `json:"agent_id"`
}

// ProvisionAccount handles POST /api/v1/inventory/accounts
func (h *InventoryHandler) ProvisionAccount(w http.ResponseWriter, r *http.Request) {
	var req provisionAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if req.ProductID <= 0 || req.Email == "" {
		response.Error(w, apierror.ValidationError("missing required fields",
			apierror.FieldError{Field: "product_id", Message: "required"},
			apierror.FieldError{Field: "email", Message: "required"},
		))
		return
	}

	result, err := h.inventory.ProvisionAccount(r.Context(), service.ProvisionAccountInput{
		ProductID:    req.ProductID,
		Email:        req.Email,
		Password:     req.Password,
		ProfileCount: req.ProfileCount,
	}, actorID(r, req.AgentID))
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Effects)
	response.Created(w, result.Account)
}

// GetAccount handles GET /api/v1/inventory/accounts/{id}
func (h *InventoryHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	detail, err := h.inventory.GetAccount(r.Context(), id)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}
	response.OK(w, detail)
}

// DeleteAccount handles DELETE /api/v1/inventory/accounts/{id}
func (h *InventoryHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var req actorRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	fx, err := h.inventory.DeleteAccount(r.Context(), id, actorID(r, req.AgentID))
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	h.dispatcher.Dispatch(r.Context(), *fx)
	response.NoContent(w)
}

type patchProfileRequest struct {
	Name    *string              `json:"name"`
	Status  *model.ProfileStatus `json:"status"`
	AgentID int64                `json:"agent_id"`
}

// PatchProfile handles PATCH /api/v1/inventory/profiles/{id}
func (h *InventoryHandler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var req patchProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	profile, fx, err := h.inventory.PatchProfile(r.Context(), id,
		model.ProfilePatch{Name: req.Name, Status: req.Status}, actorID(r, req.AgentID))
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	h.dispatcher.Dispatch(r.Context(), *fx)
	response.OK(w, profile)
}

// GetAvailability handles GET /api/v1/inventory/availability/{product_id}
func (h *InventoryHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	productID, apiErr := pathID(r, "product_id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	count, err := h.inventory.AvailabilityFor(r.Context(), productID)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}
	response.OK(w, map[string]interface{}{
		"product_id": productID,
		"available":  count,
	})
}
