package handler

import (
	"encoding/json"
	"net/http"

	"resellhub-api/internal/model"
	"resellhub-api/internal/repository"
	"resellhub-api/internal/service"
	"resellhub-api/pkg/apierror"
	"resellhub-api/pkg/response"
)

// AuthHandler handles session-related HTTP requests.
type AuthHandler struct {
	sessions *service.SessionService
	users    repository.UserRepository
	apiKeys  []string
}

// NewAuthHandler creates a new auth handler. apiKeys gates session minting:
// the gateway in front of the back office holds the key, not end users.
func NewAuthHandler(sessions *service.SessionService, users repository.UserRepository, apiKeys []string) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		users:    users,
		apiKeys:  apiKeys,
	}
}

// SessionRequest represents the request body for session creation.
type SessionRequest struct {
	Username string `json:"username"`
}

// SessionResponse represents the response for session creation.
type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	Role      string `json:"role"`
}

// CreateSession handles POST /auth/session
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" || !h.validKey(apiKey) {
		response.Error(w, apierror.Unauthorized("Valid X-API-Key required to create sessions"))
		return
	}

	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Username == "" {
		response.Error(w, apierror.BadRequest("username is required"))
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to look up user"))
		return
	}
	if user == nil {
		response.Error(w, apierror.Unauthorized("unknown user"))
		return
	}

	token, err := h.sessions.Generate(r.Context(), model.SessionData{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		response.Error(w, apierror.InternalError("failed to create session"))
		return
	}

	response.OK(w, SessionResponse{
		Token:     token,
		ExpiresIn: int(service.SessionTTL.Seconds()),
		Role:      user.Role,
	})
}

// RevokeSession handles POST /auth/revoke
func (h *AuthHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Token header required"))
		return
	}

	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		response.Error(w, apierror.InternalError("failed to revoke session"))
		return
	}

	response.OK(w, map[string]string{"status": "revoked"})
}

// RefreshSession handles POST /auth/refresh
func (h *AuthHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Token header required"))
		return
	}

	if err := h.sessions.Refresh(r.Context(), token); err != nil {
		response.Error(w, apierror.Unauthorized(err.Error()))
		return
	}

	response.OK(w, map[string]interface{}{
		"status":     "refreshed",
		"expires_in": int(service.SessionTTL.Seconds()),
	})
}

func (h *AuthHandler) validKey(key string) bool {
	for _, valid := range h.apiKeys {
		if key == valid {
			return true
		}
	}
	return false
}
