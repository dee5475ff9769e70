package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resellhub-api/internal/cache"
	"resellhub-api/internal/config"
	"resellhub-api/internal/handler"
	"resellhub-api/internal/middleware"
	"resellhub-api/internal/repository"
	"resellhub-api/internal/router"
	"resellhub-api/internal/service"
	"resellhub-api/internal/webhook"

	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting ResellHub API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize the SQL store
	var (
		store *repository.Store
		err   error
	)
	switch cfg.Store.Driver {
	case "mysql":
		store, err = repository.OpenMySQL(cfg.Store.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL store: %v", err)
		}
		log.Println("MySQL store initialized")
	default: // sqlite
		store, err = repository.OpenSQLite(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite store: %v", err)
		}
		log.Println("SQLite store initialized")
	}
	defer store.Close()

	// Initialize Redis client (optional; sessions and the lookup cache
	// degrade without it)
	var redisClient *redis.Client
	if cfg.Cache.Type == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Printf("Warning: Redis connection failed: %v", err)
			redisClient = nil
		} else {
			log.Println("Redis client initialized")
		}
		cancel()
	}

	// Lookup cache: Redis when available, in-process otherwise
	var lookupCache cache.Cache
	if redisClient != nil {
		lookupCache = cache.NewRedisCache(redisClient, "resellhub:cache:")
	} else {
		lookupCache = cache.NewMemoryCache()
	}

	// Outbound webhook emitter
	emitter := webhook.NewEmitter(cfg.Hooks.WebhookURL, cfg.Hooks.WebhookTimeout)
	if emitter.Enabled() {
		log.Printf("Webhook emitter enabled: %s", cfg.Hooks.WebhookURL)
	}

	// Initialize services
	catalogService := service.NewCatalogService(store, lookupCache, cfg.Cache.TTL)
	saleService := service.NewSaleService(store, store, catalogService, cfg.Stock.LowStockThreshold)
	inventoryService := service.NewInventoryService(store, catalogService)
	expiryService := service.NewExpiryService(store, cfg.Stock.ExpiryWindowDays)
	dispatcher := service.NewDispatcher(store, store, emitter)

	var sessionService *service.SessionService
	if redisClient != nil {
		sessionService = service.NewSessionService(redisClient)
	}

	// Background expiry sweep
	scheduler := service.NewExpiryScheduler(expiryService, dispatcher, cfg.Stock.ExpirySweepInterval)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize handlers
	healthHandler := handler.New(store.DB())
	salesHandler := handler.NewSalesHandler(saleService, expiryService, dispatcher)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, dispatcher)
	automationHandler := handler.NewAutomationHandler(expiryService, dispatcher)

	var authHandler *handler.AuthHandler
	if sessionService != nil {
		authHandler = handler.NewAuthHandler(sessionService, store, cfg.Auth.APIKeys)
	}

	// Create auth middleware with injected dependencies
	authMiddleware := middleware.NewAuthMiddleware(middleware.AuthConfig{
		Sessions: sessionService,
		APIKeys:  cfg.Auth.APIKeys,
	})

	// Create router
	r := router.New(router.Config{
		Handler:           healthHandler,
		SalesHandler:      salesHandler,
		InventoryHandler:  inventoryHandler,
		AutomationHandler: automationHandler,
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
