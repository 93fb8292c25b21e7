package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taskmanager/internal/config"
	"taskmanager/internal/db"
	"taskmanager/internal/domain"
	"taskmanager/internal/events"
	httpServer "taskmanager/internal/http"
	"taskmanager/internal/http/middleware"
	"taskmanager/internal/logger"
	"taskmanager/internal/service"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()

	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", "error", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", "error", err)
	}
	if err := store.Users().EnsureDefault(ctx, defaultOwner(cfg.DefaultUserID)); err != nil {
		logger.Fatal("failed to seed default user", "error", err)
	}

	var tokens *service.TokenManager
	if cfg.JWTSecret != "" {
		tokens = service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
		logger.Info("bearer authentication enabled for task creation")
	}

	rdb := middleware.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	hub := events.NewHub()
	defer hub.Close()

	r := httpServer.NewRouter(cfg, httpServer.Deps{
		Store:   store,
		Hub:     hub,
		Tokens:  tokens,
		Redis:   rdb,
		Version: version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// defaultOwner is the placeholder user that owns tasks created without an
// authenticated caller. Its password hash matches no password.
func defaultOwner(id int64) *domain.User {
	return &domain.User{
		ID:           id,
		Username:     "default",
		Email:        "default@localhost",
		PasswordHash: "!",
	}
}
