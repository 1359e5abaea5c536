package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sceneflix/sceneflix/internal/config"
	"github.com/sceneflix/sceneflix/internal/connect"
	"github.com/sceneflix/sceneflix/internal/container"
	"github.com/sceneflix/sceneflix/internal/localstore"
	"github.com/sceneflix/sceneflix/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	cld, err := connect.CloudinaryCredentials()
	if err != nil {
		slog.Error("Failed to connect to Cloudinary", "error", err)
		os.Exit(1)
	}
	connect.Cld = cld

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("Starting SceneFlix API server", "environment", cfg.Environment)

	// Initialize the data gateway connection
	supaClient, supaURL, supaKey, err := connect.InitSupabase()
	if err != nil {
		logger.Error("Failed to connect to Supabase", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Supabase successfully")

	// Open the visitor's local store (watchlist persistence)
	localStore, err := localstore.Open(cfg.WatchlistDBPath)
	if err != nil {
		logger.Error("Failed to open local store", "error", err, "path", cfg.WatchlistDBPath)
		os.Exit(1)
	}
	logger.Info("Local store ready", "path", cfg.WatchlistDBPath)

	// Initialize dependency container
	appContainer := container.NewContainer(logger, cld, supaClient, localStore, supaURL, supaKey)

	// Resolve the initial session state before serving; resolves to
	// Anonymous on any failure rather than blocking startup.
	appContainer.SessionService.Restore(context.Background(), cfg.SessionRefreshToken)

	// Setup routes
	router := routes.SetupRoutes(appContainer)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	connect.Disconnect()
	if err := localStore.Close(); err != nil {
		logger.Error("Error closing local store", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
