package main

import (
	"context"
	"flag"
	"fmt"

	"taskmanager/internal/config"
	"taskmanager/internal/db"
	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
)

func main() {
	apply := flag.Bool("apply", false, "apply the schema instead of printing it")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", "error", err)
	}
	defer store.Close()

	if !*apply {
		ddl, err := store.Schema(ctx)
		if err != nil {
			logger.Fatal("failed to render schema", "error", err)
		}
		fmt.Print(ddl)
		return
	}

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to apply schema", "error", err)
	}
	owner := &domain.User{ID: cfg.DefaultUserID, Username: "default", Email: "default@localhost", PasswordHash: "!"}
	if err := store.Users().EnsureDefault(ctx, owner); err != nil {
		logger.Fatal("failed to seed default user", "error", err)
	}
	fmt.Println("schema applied")
}
