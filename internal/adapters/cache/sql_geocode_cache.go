package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/platform/obs"
	"strings"
	"time"
)

// sqlDialect holds the statements that differ between SQLite and Postgres.
type sqlDialect struct {
	name string
	// lookup returns a SELECT for n addresses and the bound arguments.
	lookup func(addresses []string, cutoff int64) (string, []any)
	upsert string
}

var postgresDialect = sqlDialect{
	name: "postgres",
	lookup: func(addresses []string, cutoff int64) (string, []any) {
		return `
	SELECT address, lat, lon
	FROM geocode_cache
	WHERE address = ANY($1::text[]) AND updated_at >= $2;
	`, []any{addresses, cutoff}
	},
	upsert: `
	INSERT INTO geocode_cache (address, lat, lon, updated_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		updated_at = EXCLUDED.updated_at;
	`,
}

var sqliteDialect = sqlDialect{
	name: "sqlite",
	lookup: func(addresses []string, cutoff int64) (string, []any) {
		// SQLite cannot bind a slice to IN (...); only placeholders are interpolated.
		ph := strings.TrimSuffix(strings.Repeat("?,", len(addresses)), ",")
		args := make([]any, 0, len(addresses)+1)
		for _, a := range addresses {
			args = append(args, a)
		}
		args = append(args, cutoff)
		return fmt.Sprintf(`
	SELECT address, lat, lon
	FROM geocode_cache
	WHERE address IN (%s) AND updated_at >= ?;
	`, ph), args
	},
	upsert: `
	INSERT OR REPLACE INTO geocode_cache (address, lat, lon, updated_at)
	VALUES (?, ?, ?, ?);
	`,
}

// sqlGeocodeCache keeps address -> coordinate mappings in the geocode_cache
// table. Entries older than MaxAge are treated as misses; zero keeps them forever.
type sqlGeocodeCache struct {
	DB      *sql.DB
	MaxAge  time.Duration
	dialect sqlDialect
	now     func() time.Time
}

// SQLGeocodeCache is the Postgres-backed geocode cache.
type SQLGeocodeCache struct{ sqlGeocodeCache }

func NewSQLGeocodeCache(db *sql.DB, maxAge time.Duration) *SQLGeocodeCache {
	return &SQLGeocodeCache{sqlGeocodeCache{DB: db, MaxAge: maxAge, dialect: postgresDialect, now: time.Now}}
}

// SqliteGeocodeCache is the SQLite-backed geocode cache.
// Address keys are expected to be normalized by the caller.
type SqliteGeocodeCache struct{ sqlGeocodeCache }

func NewSqliteGeocodeCache(db *sql.DB, maxAge time.Duration) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{sqlGeocodeCache{DB: db, MaxAge: maxAge, dialect: sqliteDialect, now: time.Now}}
}

// GetMany returns the fresh cached coordinates among addresses.
func (s *sqlGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "geocode.cache."+s.dialect.name+".GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.GeoPoint{}, nil
	}

	var cutoff int64
	if s.MaxAge > 0 {
		cutoff = s.now().Add(-s.MaxAge).Unix()
	}

	q, args := s.dialect.lookup(uniq, cutoff)
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.GeoPoint, len(uniq))
	for rows.Next() {
		var addr string
		var p domain.GeoPoint
		if err := rows.Scan(&addr, &p.Lat, &p.Lon); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[addr] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

// PutMany upserts every mapping in one transaction, stamped with the current time.
func (s *sqlGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeoPoint) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.dialect.upsert)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	stamp := s.now().Unix()
	for addr, p := range results {
		if strings.TrimSpace(addr) == "" {
			return errors.New("insert geocode cache: empty address key")
		}

		if _, err := stmt.ExecContext(ctx, addr, p.Lat, p.Lon, stamp); err != nil {
			return fmt.Errorf("insert geocode cache address=%q: %w", addr, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}
	return nil
}

// uniqueKeys trims, drops empty keys and de-duplicates while keeping order.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		uniq = append(uniq, k)
	}
	return uniq
}
