// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Githubtestacc12/reorder-dashboard/internal/api"
	"github.com/Githubtestacc12/reorder-dashboard/internal/api/handlers"
	"github.com/Githubtestacc12/reorder-dashboard/internal/config"
	"github.com/Githubtestacc12/reorder-dashboard/internal/report"
	"github.com/Githubtestacc12/reorder-dashboard/internal/service"
	"github.com/Githubtestacc12/reorder-dashboard/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the report table cache
	tableCache, err := report.NewTableCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("report cache unavailable, using in-memory cache")
		tableCache = report.NewMemoryTableCache()
	}

	// Load the reorder report; a missing report is fatal before anything is served
	loader := report.NewLoader(tableCache)
	table, err := loader.Load(context.Background(), cfg.App.ReportPath)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("path", cfg.App.ReportPath).
			Msg("Could not load reorder report. Run the reorder alerts job first.")
	}
	logger.Log.Info().
		Str("path", cfg.App.ReportPath).
		Int("rows", table.Len()).
		Msg("Reorder report loaded")

	// Initialize services and router
	reportService := service.NewReportService(table, cfg.App.BufferDays)
	reportHandler := handlers.NewReportHandler(reportService, cfg.App.UploadDir)
	router := api.NewRouter(reportHandler, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
