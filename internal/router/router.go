package router

import (
	"net/http"

	"resellhub-api/internal/handler"
	"resellhub-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler           *handler.Handler
	SalesHandler      *handler.SalesHandler
	InventoryHandler  *handler.InventoryHandler
	AutomationHandler *handler.AutomationHandler
	AuthHandler       *handler.AuthHandler
	AuthMiddleware    func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key", "X-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// AUTHENTICATED routes (auth middleware itself skips the public paths)
	r.Group(func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware)
		}

		r.Route("/api/v1", func(r chi.Router) {
			// Health check endpoints
			if cfg.Handler != nil {
				r.Get("/health", cfg.Handler.Health)
				r.Get("/ready", cfg.Handler.Ready)
				r.Get("/status", cfg.Handler.Status)
			}

			// Auth endpoints
			if cfg.AuthHandler != nil {
				r.Route("/auth", func(r chi.Router) {
					r.Post("/session", cfg.AuthHandler.CreateSession)
					r.Post("/revoke", cfg.AuthHandler.RevokeSession)
					r.Post("/refresh", cfg.AuthHandler.RefreshSession)
				})
			}

			// Sale lifecycle endpoints
			if cfg.SalesHandler != nil {
				r.Route("/sales", func(r chi.Router) {
					r.Post("/", cfg.SalesHandler.CreateSale)
					r.Get("/expiring", cfg.SalesHandler.ListExpiring)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", cfg.SalesHandler.GetSale)
						r.Delete("/", cfg.SalesHandler.DeleteSale)
						r.Post("/renew", cfg.SalesHandler.RenewSale)
						r.Post("/expel", cfg.SalesHandler.ExpelSale)
						r.Post("/reactivate", cfg.SalesHandler.ReactivateSale)
					})
				})
			}

			// Inventory endpoints
			if cfg.InventoryHandler != nil {
				r.Route("/inventory", func(r chi.Router) {
					r.Post("/accounts", cfg.InventoryHandler.ProvisionAccount)
					r.Get("/accounts/{id}", cfg.InventoryHandler.GetAccount)
					r.Delete("/accounts/{id}", cfg.InventoryHandler.DeleteAccount)
					r.Patch("/profiles/{id}", cfg.InventoryHandler.PatchProfile)
					r.Get("/availability/{product_id}", cfg.InventoryHandler.GetAvailability)
				})
			}

			// Automation endpoints
			if cfg.AutomationHandler != nil {
				r.Post("/automation/expiry-warnings", cfg.AutomationHandler.RunExpiryWarnings)
			}
		})
	})

	return r
}
