package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	mongomigration "kairooms/internal/migrations/mongo"
	"kairooms/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.Client.GracefulShutdown(cfg.Log)

	cfg.Log.Info("Starting Mongo migration job")
	if err := mongomigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
