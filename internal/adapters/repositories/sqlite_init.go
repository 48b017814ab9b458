package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/ports"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	return execSchema(db, []string{
		`
	CREATE TABLE IF NOT EXISTS waypoints (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		address TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending'
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT 0
	);
	`,
	})
}

// Initialize the Postgres database schema.
func InitPostgresSchema(db *sql.DB) error {
	return execSchema(db, []string{
		`
	CREATE TABLE IF NOT EXISTS waypoints (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		address TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending'
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		updated_at BIGINT NOT NULL DEFAULT 0
	);
	`,
	})
}

func execSchema(db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type WaypointSeed struct {
	ID      string  `json:"id"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Status  string  `json:"status"`
}

// Populate an empty waypoint store from a JSON file and report how many rows were written.
// A store that already holds waypoints is left alone, so user edits survive restarts.
// Seeds without an id get one derived from the address.
func SeedFromJSON(ctx context.Context, repo ports.WaypointRepository, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed waypoints: read %q: %w", jsonPath, err)
	}

	var data []WaypointSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed waypoints: parse json: %w", err)
	}

	rows := make([]domain.Waypoint, 0, len(data))
	for i, item := range data {
		address := strings.TrimSpace(item.Address)
		if address == "" {
			return 0, fmt.Errorf("seed waypoints: item at index %d: address cannot be empty", i+1)
		}

		loc := domain.GeoPoint{Lat: item.Lat, Lon: item.Lon}
		if !loc.Valid() {
			return 0, fmt.Errorf("seed waypoints: item at index %d: %v: %w", i+1, loc, domain.ErrInvalidLocation)
		}

		status, err := domain.ParseStatus(item.Status)
		if err != nil {
			return 0, fmt.Errorf("seed waypoints: item at index %d: %w", i+1, err)
		}

		id := strings.TrimSpace(item.ID)
		if id == "" {
			id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(address)).String()
		}

		rows = append(rows, domain.Waypoint{ID: id, Address: address, Location: loc, Status: status})
	}

	existing, err := repo.ListWaypoints(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed waypoints: list existing: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, w := range rows {
		if err := repo.SaveWaypoint(ctx, w); err != nil {
			return 0, fmt.Errorf("seed waypoints: %w", err)
		}
	}

	return len(rows), nil
}
