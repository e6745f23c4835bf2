package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamfest/guardian-consent/internal/system/config"
	"github.com/jamfest/guardian-consent/internal/system/database"
	"github.com/jamfest/guardian-consent/internal/system/database/provider"
	"github.com/jamfest/guardian-consent/internal/system/log"
	"github.com/jamfest/guardian-consent/internal/system/middleware"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Server"))

	logger.Info("Starting Guardian Consent API Server...",
		log.String("version", version),
		log.String("build_date", buildDate),
	)

	// Load configuration
	// Priority: CONFIG_PATH env var > repository/conf/deployment.yaml > cmd/server/repository/conf/deployment.yaml
	configPath := os.Getenv("CONFIG_PATH")

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", log.Error(err))
	}
	config.SetGlobal(cfg)

	log.SetLevel(cfg.Logging.Level)
	logger.Info("Configuration loaded successfully",
		log.String("config_path", configPath),
		log.String("log_level", cfg.Logging.Level),
	)

	// Initialize database
	db, err := database.Initialize(&cfg.Database.Guardian)
	if err != nil {
		logger.Fatal("Failed to initialize database", log.Error(err))
	}
	defer db.Close()

	// Verify database connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		logger.Fatal("Database health check failed", log.Error(err))
	}

	logger.Info("Database connection established successfully")

	dbClient := provider.NewDBClient(db, cfg.Database.Guardian.Type)

	// Create http.ServeMux and register all modules
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	initializeServices(mux, dbClient, cfg)

	// Wrap with correlation ID middleware
	httpHandler := middleware.WrapWithCorrelationID(mux)

	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        httpHandler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting HTTP server...",
			log.String("hostname", cfg.Server.Hostname),
			log.Int("port", cfg.Server.Port),
			log.String("addr", serverAddr),
		)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", log.Error(err))
		}
	}()

	logger.Info("Server is running", log.String("address", serverAddr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", log.Error(err))
	}

	logger.Info("Server exited gracefully")
}
