package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"marker-route-service/internal/adapters/cache"
	"marker-route-service/internal/adapters/geocoding"
	"marker-route-service/internal/adapters/repositories"
	"marker-route-service/internal/api"
	"marker-route-service/internal/config"
	"marker-route-service/internal/geo"
	"marker-route-service/internal/platform/db"
	"marker-route-service/internal/platform/metrics"
	"marker-route-service/internal/platform/obs"
	"marker-route-service/internal/ports"
	"marker-route-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// memoryDBPath selects the in-process waypoint store with no persistence.
const memoryDBPath = "memory"

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, a geocoder, a geocode cache)
// behind ports and starts the HTTP server.
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
	metrics.RegisterDefault()

	if err := run(cfg, logger); err != nil {
		logger.Fatal(err)
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Seed demo data into a fresh store for local runs.
	seeded, err := repositories.SeedFromJSON(ctx, store.repo, cfg.SeedPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.WithField("path", cfg.SeedPath).Info("no seed file, starting with an empty store")
	case err != nil:
		return err
	case seeded > 0:
		logger.WithFields(logrus.Fields{"path": cfg.SeedPath, "waypoints": seeded}).Info("seeded waypoint store")
	}

	geocodeCache, closeCache, err := openGeocodeCache(ctx, cfg, store.db, store.postgres)
	if err != nil {
		return err
	}
	defer closeCache()

	resolver, err := newResolver(ctx, cfg, store.repo, geocodeCache)
	if err != nil {
		return err
	}

	strategy, err := services.ParseStrategy(cfg.RouteStrategy)
	if err != nil {
		return fmt.Errorf("ROUTE_STRATEGY: %w", err)
	}

	planner := services.NewRoutePlanner(geo.Metric, services.RoutePlannerOptions{
		ExactMax:     cfg.RouteExactMax,
		ExactWorkers: cfg.ExactWorkers,
		Epsilon:      cfg.CoordEpsilon,
	})

	router := api.NewRouter(api.Deps{
		Repo:               store.repo,
		Resolver:           resolver,
		Planner:            planner,
		DefaultStrategy:    strategy,
		ResolveTimeout:     cfg.ResolveTimeout,
		ToggleRadiusMeters: cfg.ToggleRadiusMeters,
	})

	// Write timeout covers a cold geocode plus an exhaustive plan.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": srv.Addr, "geocoder": cfg.Geocoder, "strategy": strategy}).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type store struct {
	db       *sql.DB
	postgres bool
	repo     ports.WaypointRepository
}

func (s *store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// openStore picks Postgres when DATABASE_URL is set, the in-memory store for
// DB_PATH=memory, and SQLite otherwise.
func openStore(cfg config.Config) (*store, error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := repositories.InitPostgresSchema(pg); err != nil {
			pg.Close()
			return nil, err
		}
		return &store{db: pg, postgres: true, repo: repositories.NewSQLWaypointRepository(pg)}, nil

	case cfg.DBPath == memoryDBPath:
		return &store{repo: repositories.NewMemoryWaypointRepository()}, nil

	default:
		lite, err := openSqlite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := repositories.InitSchema(lite); err != nil {
			lite.Close()
			return nil, err
		}
		return &store{db: lite, repo: repositories.NewSqliteWaypointRepository(lite)}, nil
	}
}

func openSqlite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

// openGeocodeCache prefers Redis when REDIS_URL is set and falls back to the
// geocode_cache table of the SQL store. The in-memory store has no cache.
func openGeocodeCache(
	ctx context.Context,
	cfg config.Config,
	sqlDB *sql.DB,
	postgres bool,
) (ports.GeocodeCache, func(), error) {
	noop := func() {}

	switch {
	case cfg.RedisURL != "":
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return cache.NewRedisGeocodeCache(client, cfg.GeocodeCacheTTL), func() { _ = client.Close() }, nil
	case sqlDB == nil:
		return nil, noop, nil
	case postgres:
		return cache.NewSQLGeocodeCache(sqlDB, cfg.GeocodeCacheTTL), noop, nil
	default:
		return cache.NewSqliteGeocodeCache(sqlDB, cfg.GeocodeCacheTTL), noop, nil
	}
}

// newResolver builds the configured geocoder behind the persistent cache.
// GEOCODER=static answers only for addresses already in the store.
func newResolver(
	ctx context.Context,
	cfg config.Config,
	repo ports.WaypointRepository,
	geocodeCache ports.GeocodeCache,
) (ports.PositionResolver, error) {
	var next ports.PositionResolver

	switch cfg.Geocoder {
	case "ors":
		ors, err := geocoding.NewORSGeocoder(cfg.ORSAPIKey, cfg.GeocoderRPS)
		if err != nil {
			return nil, err
		}
		next = ors
	case "static":
		ws, err := repo.ListWaypoints(ctx)
		if err != nil {
			return nil, fmt.Errorf("static geocoder: %w", err)
		}
		places := make([]geocoding.StaticPlace, 0, len(ws))
		for _, w := range ws {
			places = append(places, geocoding.StaticPlace{Address: w.Address, Lat: w.Location.Lat, Lon: w.Location.Lon})
		}
		return geocoding.NewStaticResolver(places), nil
	default:
		next = geocoding.NewNominatimGeocoder(cfg.GeocoderRPS)
	}

	if geocodeCache == nil {
		return next, nil
	}
	return geocoding.NewCachingResolver(next, geocodeCache), nil
}
