package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	"resellhub-api/internal/model"
	"resellhub-api/internal/service"
	"resellhub-api/pkg/apierror"
)

// SessionDataKey is the key for storing session data in request context.
const SessionDataKey contextKey = "session_data"

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Sessions *service.SessionService
	APIKeys  []string
}

// NewAuthMiddleware creates an authentication middleware with injected
// dependencies. Requests carry either an X-Token session token or an
// X-API-Key for machine callers.
func NewAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for health check endpoints
			if r.URL.Path == "/api/v1/health" || r.URL.Path == "/api/v1/ready" || r.URL.Path == "/api/v1/status" {
				next.ServeHTTP(w, r)
				return
			}

			// Skip auth for session creation; it carries its own key check.
			if r.URL.Path == "/api/v1/auth/session" && r.Method == "POST" {
				next.ServeHTTP(w, r)
				return
			}

			// Try X-Token first (session tokens)
			token := r.Header.Get("X-Token")
			if token != "" && cfg.Sessions != nil {
				sessionData, err := cfg.Sessions.Validate(r.Context(), token)
				if err != nil {
					writeError(w, apierror.Unauthorized("Invalid or expired token"))
					return
				}

				ctx := context.WithValue(r.Context(), SessionDataKey, sessionData)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Fall back to X-API-Key
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				auth := r.Header.Get("Authorization")
				if strings.HasPrefix(auth, "Bearer ") {
					apiKey = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if apiKey == "" {
				writeError(w, apierror.Unauthorized("Authentication required. Use X-Token or X-API-Key header."))
				return
			}

			validKeys := cfg.APIKeys
			if len(validKeys) == 0 {
				validKeys = getAPIKeysFromEnv()
			}

			if !isValidKey(apiKey, validKeys) {
				writeError(w, apierror.Unauthorized("Invalid API key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}

// getAPIKeysFromEnv returns API keys from environment variables.
func getAPIKeysFromEnv() []string {
	keysEnv := os.Getenv("API_KEYS")
	if keysEnv == "" {
		singleKey := os.Getenv("API_KEY")
		if singleKey != "" {
			return []string{singleKey}
		}
		return nil
	}

	keys := strings.Split(keysEnv, ",")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}
	return keys
}

// isValidKey checks if the provided key is in the valid keys list.
func isValidKey(key string, validKeys []string) bool {
	for _, valid := range validKeys {
		if key == valid {
			return true
		}
	}
	return false
}

// GetSessionFromContext retrieves session data from request context.
func GetSessionFromContext(ctx context.Context) *model.SessionData {
	if data, ok := ctx.Value(SessionDataKey).(*model.SessionData); ok {
		return data
	}
	return nil
}
