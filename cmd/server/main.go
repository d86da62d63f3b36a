package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/patientfunnel/server/cache"
	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/controllers"
	"github.com/patientfunnel/server/crm"
	"github.com/patientfunnel/server/routes"
	"github.com/patientfunnel/server/storage"
)

func main() {
	cfg := config.Load()

	logger := config.NewLogger(cfg)
	defer logger.Sync()

	if err := config.ConnectDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := config.MigrateDB(config.DB); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("connected to Postgres")

	var responseCache *cache.ResponseCache
	if redisClient, err := config.NewRedisClient(cfg); err != nil {
		logger.Warn("response cache disabled", zap.Error(err))
	} else {
		responseCache = cache.New(redisClient, cfg.CacheTTL)
	}

	controllers.Init(cfg, logger,
		storage.NewFileStore(cfg.MediaRoot),
		crm.NewPipedrive(cfg.PipedriveURL),
		responseCache)

	r := gin.New()
	r.Use(gin.Recovery())
	routes.Register(r, cfg, responseCache)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
