package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"securecheck/catalog"
	"securecheck/config"
	"securecheck/handlers"
	"securecheck/logging"
	"securecheck/models"
	"securecheck/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := services.OpenDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("invalid database configuration", zap.Error(err))
	}

	store := services.NewRecordStore(db, logger)
	if err := store.Ping(context.Background()); err != nil {
		logger.Warn("record store unreachable at startup, serving empty tables", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		logger.Warn("failed to migrate users, accounts unavailable", zap.Error(err))
	}

	cache, err := services.NewCacheService(cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, query cache and live feed disabled", zap.Error(err))
	}
	defer cache.Close()

	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal("failed to load query catalog", zap.Error(err))
	}

	ttl := time.Duration(cfg.Server.QueryCacheTTLSec) * time.Second
	dash := services.NewDashboard(store, cat, cache, ttl, logger)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.RouterDeps{
		Config:    cfg,
		DB:        db,
		Store:     store,
		Dashboard: dash,
		Cache:     cache,
		Auth:      services.NewAuthService(cfg.JWT),
		Log:       logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.Bool("auth_required", cfg.Auth.Required))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
