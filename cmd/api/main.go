package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slicehouse/internal/cache"
	"slicehouse/internal/catalog"
	"slicehouse/internal/config"
	"slicehouse/internal/database"
	"slicehouse/internal/handler"
	"slicehouse/internal/identity"
	"slicehouse/internal/repository"
	"slicehouse/internal/router"
	"slicehouse/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting slicehouse API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize Redis (dashboard cache + role-sync queue)
	cacheClient, err := cache.NewClient(ctx, cfg.Redis.URL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer cacheClient.Close()

	// Initialize repositories
	ingredientRepo := repository.NewIngredientRepository(pool, logger)
	packRepo := repository.NewPackRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	analyticsRepo := repository.NewAnalyticsRepository(pool, logger)

	// Initialize catalog seed loader with S3 and local fallback
	fileLoader := catalog.NewFileLoader(logger)
	seedLoader := fileLoader
	if cfg.Catalog.S3Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.Catalog.S3Bucket, cfg.Catalog.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			seedLoader = catalog.NewFallbackLoader(s3Loader, fileLoader, true, logger)
		}
	}

	// Seed the catalog before taking traffic
	seeder := catalog.NewSeeder(seedLoader, ingredientRepo, packRepo, logger)
	if err := seeder.Apply(ctx, cfg.Catalog.SeedPath, cfg.Catalog.ForceSeed); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	// Initialize identity provider client and background role syncer
	identityClient := identity.NewClient(cfg.Identity.APIURL, cfg.Identity.APIKey, logger)
	syncer := identity.NewSyncer(cacheClient, identityClient, cfg.Identity.SyncMaxAttempts, logger)
	go syncer.Run(ctx)

	// Initialize services
	inventoryService := service.NewInventoryService(ingredientRepo, packRepo, logger)
	cartService := service.NewCartService(cartRepo, logger)
	orderService := service.NewOrderService(orderRepo, inventoryService, cartService, logger)
	userService := service.NewUserService(userRepo, identityClient, cacheClient, logger)
	analyticsService := service.NewAnalyticsService(
		analyticsRepo,
		cacheClient,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		cfg.Dashboard.PollSeconds,
		logger,
	)

	// Initialize HTTP handlers
	webhookHandler, err := handler.NewWebhookHandler(userService, cfg.Identity.WebhookSecret, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize webhook handler: %w", err)
	}

	handlers := router.Handlers{
		Inventory: handler.NewInventoryHandler(inventoryService, logger),
		Cart:      handler.NewCartHandler(cartService, logger),
		Order:     handler.NewOrderHandler(orderService, logger),
		User:      handler.NewUserHandler(userService, logger),
		Admin:     handler.NewAdminHandler(userService, orderService, logger),
		Analytics: handler.NewAnalyticsHandler(analyticsService, logger),
		Webhook:   webhookHandler,
	}

	// Initialize router
	mux := router.New(handlers, cfg.Auth.JWTSecret, userService, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Stop the role syncer along with the server
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
