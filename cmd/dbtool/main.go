package main

import (
	"context"
	"database/sql"
	"flag"
	"marker-route-service/internal/adapters/repositories"
	"marker-route-service/internal/config"
	"marker-route-service/internal/platform/db"
	"marker-route-service/internal/platform/obs"

	"github.com/sirupsen/logrus"
)

// dbtool prepares a Postgres database: creates the schema and loads seed waypoints.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatal(err)
	}
	obs.SetLogger(logger)

	seedPath := flag.String("seed", cfg.SeedPath, "seed file with waypoints (empty skips seeding)")
	flag.Parse()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(err)
	}
	defer pg.Close()

	if err := initAndSeed(context.Background(), logger, pg, *seedPath); err != nil {
		logger.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, logger *logrus.Logger, pg *sql.DB, seedPath string) error {
	logger.Info("initializing database schema")
	if err := repositories.InitPostgresSchema(pg); err != nil {
		return err
	}
	logger.Info("schema ready")

	if seedPath == "" {
		return nil
	}

	logger.WithField("path", seedPath).Info("seeding waypoints")
	n, err := repositories.SeedFromJSON(ctx, repositories.NewSQLWaypointRepository(pg), seedPath)
	if err != nil {
		return err
	}
	if n == 0 {
		logger.Info("store already holds waypoints, seed skipped")
		return nil
	}
	logger.WithField("waypoints", n).Info("seeding complete")

	return nil
}
