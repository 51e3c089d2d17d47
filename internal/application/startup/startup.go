// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ettle-app/ettle-go/internal/application/container"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/performance"
	"github.com/ettle-app/ettle-go/internal/presentation/http/server"
	"github.com/ettle-app/ettle-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence and blocks until
// shutdown completes.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("Initializing Ettle backend...")

	// Step 1: Observability first, everything else logs through it.
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.LogDirectory = config.LogDirectory
	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())

	// Step 2: Dependency injection container with singleton services.
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer, err := container.New(logger, perfTracker)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	logger.Startup().Info("Container initialization complete")

	// Step 3: Periodic cleanup of completed performance markers.
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				perfTracker.Cleanup()
			}
		}
	}()

	// Step 4: HTTP server.
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"questions", appContainer.Graph.Len(),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Stop(ctx); err != nil {
		logger.Shutdown().Error("HTTP server shutdown failed", "error", err.Error())
	}

	appContainer.Shutdown()
	logger.Perf().Info("Tracker stats at shutdown", "stats", perfTracker.GetOverallStats())
	logger.Shutdown().Info("Graceful shutdown complete", "duration", time.Since(shutdownStart))
	return logger.Close()
}

// setupLogging configures the gin runtime mode before any engine exists.
func setupLogging() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
}
