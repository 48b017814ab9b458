package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"marker-route-service/internal/domain"
)

// SQLite-backed implementation of the WaypointRepository port.
type SqliteWaypointRepository struct{ DB *sql.DB }

func NewSqliteWaypointRepository(db *sql.DB) *SqliteWaypointRepository {
	return &SqliteWaypointRepository{DB: db}
}

// Return all waypoints in insertion order.
func (s *SqliteWaypointRepository) ListWaypoints(ctx context.Context) ([]domain.Waypoint, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite waypoint repository: DB is nil")
	}

	query := `
	SELECT
		id,
		address,
		lat,
		lon,
		status
	FROM waypoints
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list waypoints: query waypoints table: %w", err)
	}
	defer rows.Close()

	return scanWaypoints(rows)
}

func (s *SqliteWaypointRepository) GetWaypoint(ctx context.Context, id string) (domain.Waypoint, error) {
	if s.DB == nil {
		return domain.Waypoint{}, errors.New("sqlite waypoint repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT id, address, lat, lon, status
	FROM waypoints
	WHERE id = ?;
	`, id)

	w, err := scanWaypoint(row)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("get waypoint %q: %w", id, err)
	}
	return w, nil
}

// Insert a waypoint or replace the one with the same id, keeping its position.
func (s *SqliteWaypointRepository) SaveWaypoint(ctx context.Context, w domain.Waypoint) error {
	if s.DB == nil {
		return errors.New("sqlite waypoint repository: DB is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO waypoints (
		id,
		address,
		lat,
		lon,
		status
	)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET address = excluded.address,
		lat = excluded.lat,
		lon = excluded.lon,
		status = excluded.status;
	`, w.ID, w.Address, w.Location.Lat, w.Location.Lon, string(w.Status))
	if err != nil {
		return fmt.Errorf("save waypoint %q: %w", w.ID, err)
	}
	return nil
}

func (s *SqliteWaypointRepository) SetStatus(ctx context.Context, id string, status domain.Status) error {
	if s.DB == nil {
		return errors.New("sqlite waypoint repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE waypoints SET status = ? WHERE id = ?;`, string(status), id)
	if err != nil {
		return fmt.Errorf("set waypoint status %q: %w", id, err)
	}
	return requireOneRow(res, id)
}

// Flip the status in one UPDATE so concurrent toggles cannot lose a write.
func (s *SqliteWaypointRepository) ToggleStatus(ctx context.Context, id string) (domain.Waypoint, error) {
	if s.DB == nil {
		return domain.Waypoint{}, errors.New("sqlite waypoint repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	UPDATE waypoints
	SET status = CASE WHEN status = ? THEN ? ELSE ? END
	WHERE id = ?
	RETURNING id, address, lat, lon, status;
	`, string(domain.StatusDone), string(domain.StatusPending), string(domain.StatusDone), id)

	w, err := scanWaypoint(row)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("toggle waypoint status %q: %w", id, err)
	}
	return w, nil
}

func (s *SqliteWaypointRepository) DeleteWaypoint(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("sqlite waypoint repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM waypoints WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete waypoint %q: %w", id, err)
	}
	return requireOneRow(res, id)
}
