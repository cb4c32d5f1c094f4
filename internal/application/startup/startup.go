// Package startup prepares the application server
package startup

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadrelay/leadrelay-go/internal/application/container"
	"github.com/leadrelay/leadrelay-go/internal/presentation/http/server"
	"github.com/leadrelay/leadrelay-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("Initializing...")
	appContainer := container.NewContainer()

	logger := appContainer.Logger
	logger.Startup().Info("Container initialization complete - switching to channeled logging")
	logger.Startup().Info("Stores initialized", "dataDir", config.DataDir)
	logger.Startup().Info("Upstream client initialized",
		"baseUrl", config.GraphAPIBaseURL, "version", config.GraphAPIVersion)

	logger.Startup().Info("Starting HTTP server...")
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	<-gracefulShutdown
	logger.System().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.System().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.System().Info("HTTP server stopped successfully")
	}

	logger.System().Info("Application shutdown complete", "totalUptime", time.Since(start))
	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
