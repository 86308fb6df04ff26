package main

// Apply or inspect the embedded schema migrations:
//   go run ./cmd/migrate [-command up|down|status|version]

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"creerlio-backend/internal/shared/config"
	"creerlio-backend/internal/shared/storage/db"
	"creerlio-backend/internal/shared/telemetry"
)

func main() {
	command := flag.String("command", "up", "goose command: up, down, status or version")
	flag.Parse()

	cfg := config.Load()
	if _, err := telemetry.Init(cfg.Env, cfg.LogLevel); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = telemetry.Sync() }()

	if cfg.DatabaseURL == "" {
		telemetry.Error("migrate.failed", map[string]any{"error": "DATABASE_URL is required"})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, *command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": *command, "error": err.Error()})
		_ = sqlDB.Close()
		os.Exit(1)
	}
}
