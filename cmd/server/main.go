package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/quickbite/storefront/internal/cart"
	"github.com/quickbite/storefront/internal/catalog"
	"github.com/quickbite/storefront/internal/config"
	"github.com/quickbite/storefront/internal/handlers"
	"github.com/quickbite/storefront/internal/middleware"
	"github.com/quickbite/storefront/internal/order"
	"github.com/quickbite/storefront/internal/repository"
	"github.com/quickbite/storefront/internal/session"
	"github.com/quickbite/storefront/internal/upstream"
	"github.com/quickbite/storefront/pkg/logger"
)

func main() {
	// Load .env if present; system environment still wins.
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, relying on system environment variables")
	}

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront gateway",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"backend_url", cfg.Upstream.BackendURL,
		"log_level", cfg.LogLevel,
	)

	// Open the local cart snapshot store
	snapshots, err := repository.NewBoltSnapshotRepository(cfg.Cart.SnapshotPath)
	if err != nil {
		log.Error("failed to open cart snapshot store", "path", cfg.Cart.SnapshotPath, "error", err)
		os.Exit(1)
	}
	defer snapshots.Close()

	// Upstream clients and session manager
	backend := upstream.NewClient(
		cfg.Upstream.BackendURL,
		cfg.Upstream.RecommenderURL,
		time.Duration(cfg.Upstream.Timeout)*time.Second,
		log,
	)
	sessions := session.NewManager(cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour)

	// Restaurant catalog cache; a failed initial refresh is retried by
	// the background worker.
	restaurantCatalog := catalog.New(backend, log)
	refreshCtx, cancelRefresh := context.WithTimeout(context.Background(), 30*time.Second)
	if err := restaurantCatalog.Refresh(refreshCtx); err != nil {
		log.Warn("initial catalog refresh failed", "error", err)
	}
	cancelRefresh()

	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Catalog.RefreshSeconds) * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := restaurantCatalog.Refresh(ctx); err != nil {
				log.Warn("catalog refresh failed", "error", err)
			}
			cancel()
		}
	}()

	// Core services
	cartStore := cart.NewStore(snapshots, log)
	submitter := order.NewSubmitter(backend, cartStore, restaurantCatalog, log)

	// Handlers
	healthHandler := handlers.NewHealthHandler(log)
	authHandler := handlers.NewAuthHandler(backend, sessions, cartStore, log)
	cartHandler := handlers.NewCartHandler(cartStore, log)
	checkoutHandler := handlers.NewCheckoutHandler(submitter, log)
	restaurantHandler := handlers.NewRestaurantHandler(backend, log)
	orderHandler := handlers.NewOrderHandler(backend, log)
	profileHandler := handlers.NewProfileHandler(backend, log)
	adminHandler := handlers.NewAdminHandler(backend, log)
	recommendationHandler := handlers.NewRecommendationHandler(backend, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration for the browser frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)
		r.Get("/restaurants", restaurantHandler.List)
		r.Get("/restaurants/{restaurantId}", restaurantHandler.Get)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(sessions))

			r.Post("/auth/logout", authHandler.Logout)

			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Update)

			r.Post("/restaurants/{restaurantId}/recommendations", recommendationHandler.Recommend)

			r.Get("/cart", cartHandler.Get)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{itemId}", cartHandler.UpdateItem)
			r.Delete("/cart/items/{itemId}", cartHandler.RemoveItem)
			r.Delete("/cart", cartHandler.Clear)

			r.Post("/checkout", checkoutHandler.Checkout)

			r.Get("/orders", orderHandler.List)
			r.Get("/orders/{orderId}", orderHandler.Get)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/restaurants", adminHandler.CreateRestaurant)
				r.Put("/restaurants/{restaurantId}", adminHandler.UpdateRestaurant)
				r.Delete("/restaurants/{restaurantId}", adminHandler.DeleteRestaurant)
				r.Post("/restaurants/{restaurantId}/menu", adminHandler.AddMenuItem)
				r.Delete("/restaurants/{restaurantId}/menu/{itemName}", adminHandler.DeleteMenuItem)
			})
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
