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

	"github.com/andresuchdata/vendsight/internal/api"
	"github.com/andresuchdata/vendsight/internal/cache"
	"github.com/andresuchdata/vendsight/internal/config"
	"github.com/andresuchdata/vendsight/internal/domain"
	"github.com/andresuchdata/vendsight/internal/ingest"
	"github.com/andresuchdata/vendsight/internal/service"
	"github.com/andresuchdata/vendsight/internal/storage"
	"github.com/andresuchdata/vendsight/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	}

	selectorKey, ok := domain.ParseSelectorKey(cfg.App.SelectorKey)
	if !ok {
		logger.Log.Fatal().Str("selector_key", cfg.App.SelectorKey).Msg("Invalid selector key")
	}

	// Optional object storage input source
	var store *storage.Client
	if cfg.Storage.Enabled {
		var err error
		store, err = storage.NewClient(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
	}

	viewCache, err := cache.NewViewCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("View cache unavailable, falling back to noop")
		viewCache = cache.NewNoopViewCache()
	}

	loader := ingest.NewBatchLoader(cfg, store)
	dashboard := service.NewDashboardService(loader, selectorKey, cfg.App.StrictSelectors, viewCache)

	// The batch must load cleanly before serving anything; a malformed or
	// empty input aborts startup.
	if err := dashboard.Reload(context.Background()); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load transaction batch")
	}

	router := api.NewRouter(dashboard, cfg.Server.AllowedOrigins)
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
