package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"taskmanager/internal/config"
	"taskmanager/internal/db"
	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
	"taskmanager/internal/service"
)

func main() {
	username := flag.String("username", "", "username (required)")
	email := flag.String("email", "", "email (required)")
	password := flag.String("password", "", "password (required)")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	hash, err := service.HashPassword(*password)
	if err != nil {
		logger.Fatal("failed to hash password", "error", err)
	}

	u := &domain.User{Username: *username, Email: *email, PasswordHash: hash}
	if err := store.Users().Create(ctx, u); err != nil {
		logger.Fatal("create user failed", "error", err)
	}
	logger.Info("user created", "id", u.ID, "username", u.Username)

	if cfg.JWTSecret == "" {
		return
	}
	token, err := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL).Generate(u.ID)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Println(token)
}
