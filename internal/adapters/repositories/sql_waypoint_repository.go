package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the WaypointRepository port
// (database/sql through the pgx stdlib driver).
type SQLWaypointRepository struct{ DB *sql.DB }

func NewSQLWaypointRepository(db *sql.DB) *SQLWaypointRepository {
	return &SQLWaypointRepository{DB: db}
}

func (s *SQLWaypointRepository) ListWaypoints(ctx context.Context) (_ []domain.Waypoint, err error) {
	defer obs.Time(ctx, "waypoints.ListWaypoints")(&err)

	if s.DB == nil {
		return nil, errors.New("sql waypoint repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, address, lat, lon, status
	FROM waypoints
	ORDER BY seq;
	`)
	if err != nil {
		return nil, fmt.Errorf("list waypoints: query waypoints table: %w", err)
	}
	defer rows.Close()

	return scanWaypoints(rows)
}

func (s *SQLWaypointRepository) GetWaypoint(ctx context.Context, id string) (domain.Waypoint, error) {
	if s.DB == nil {
		return domain.Waypoint{}, errors.New("sql waypoint repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT id, address, lat, lon, status
	FROM waypoints
	WHERE id = $1;
	`, id)

	w, err := scanWaypoint(row)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("get waypoint %q: %w", id, err)
	}
	return w, nil
}

func (s *SQLWaypointRepository) SaveWaypoint(ctx context.Context, w domain.Waypoint) error {
	if s.DB == nil {
		return errors.New("sql waypoint repository: DB is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO waypoints (id, address, lat, lon, status)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET address = EXCLUDED.address,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		status = EXCLUDED.status;
	`, w.ID, w.Address, w.Location.Lat, w.Location.Lon, string(w.Status))
	if err != nil {
		return fmt.Errorf("save waypoint %q: %w", w.ID, err)
	}
	return nil
}

func (s *SQLWaypointRepository) SetStatus(ctx context.Context, id string, status domain.Status) error {
	if s.DB == nil {
		return errors.New("sql waypoint repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE waypoints SET status = $1 WHERE id = $2;`, string(status), id)
	if err != nil {
		return fmt.Errorf("set waypoint status %q: %w", id, err)
	}
	return requireOneRow(res, id)
}

func (s *SQLWaypointRepository) ToggleStatus(ctx context.Context, id string) (domain.Waypoint, error) {
	if s.DB == nil {
		return domain.Waypoint{}, errors.New("sql waypoint repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	UPDATE waypoints
	SET status = CASE WHEN status = $1 THEN $2 ELSE $1 END
	WHERE id = $3
	RETURNING id, address, lat, lon, status;
	`, string(domain.StatusDone), string(domain.StatusPending), id)

	w, err := scanWaypoint(row)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("toggle waypoint status %q: %w", id, err)
	}
	return w, nil
}

func (s *SQLWaypointRepository) DeleteWaypoint(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("sql waypoint repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM waypoints WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete waypoint %q: %w", id, err)
	}
	return requireOneRow(res, id)
}
