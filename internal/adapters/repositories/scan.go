package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"marker-route-service/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWaypoint(row rowScanner) (domain.Waypoint, error) {
	var (
		w        domain.Waypoint
		status   string
		lat, lon float64
	)
	if err := row.Scan(&w.ID, &w.Address, &lat, &lon, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Waypoint{}, domain.ErrWaypointNotFound
		}
		return domain.Waypoint{}, fmt.Errorf("scan waypoint: %w", err)
	}

	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("scan waypoint %q: %w", w.ID, err)
	}
	w.Status = st
	w.Location = domain.GeoPoint{Lat: lat, Lon: lon}
	return w, nil
}

func scanWaypoints(rows *sql.Rows) ([]domain.Waypoint, error) {
	waypoints := make([]domain.Waypoint, 0, 16)
	for rows.Next() {
		w, err := scanWaypoint(rows)
		if err != nil {
			return nil, fmt.Errorf("list waypoints: %w", err)
		}
		waypoints = append(waypoints, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list waypoints: row iteration: %w", err)
	}

	return waypoints, nil
}

func requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("waypoint %q: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("waypoint %q: %w", id, domain.ErrWaypointNotFound)
	}
	return nil
}
