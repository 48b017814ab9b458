package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisGeocodePrefix     = "geocode:"
	defaultGeocodeCacheTTL = 30 * 24 * time.Hour
)

type redisGeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RedisGeocodeCache keeps address -> coordinate mappings in Redis with a TTL,
// so several service instances share one geocoding budget.
type RedisGeocodeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	if ttl <= 0 {
		ttl = defaultGeocodeCacheTTL
	}
	return &RedisGeocodeCache{Client: client, TTL: ttl}
}

// Connect parses a redis:// URL and verifies the connection.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: ping: %w", err)
	}

	return client, nil
}

// Fetch cached coordinates for the given addresses.
func (r *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "geocode.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.GeoPoint{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, a := range uniq {
		keys = append(keys, redisGeocodePrefix+a)
	}

	values, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	out := make(map[string]domain.GeoPoint, len(uniq))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue // miss
		}

		var p redisGeoPoint
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, fmt.Errorf("get geocode cache: decode %q: %w", uniq[i], err)
		}
		out[uniq[i]] = domain.GeoPoint{Lat: p.Lat, Lon: p.Lon}
	}

	return out, nil
}

// Store address -> coordinate mappings in the cache.
func (r *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeoPoint) error {
	if r.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := r.Client.TxPipeline()
	for addr, c := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}

		b, err := json.Marshal(redisGeoPoint{Lat: c.Lat, Lon: c.Lon})
		if err != nil {
			return fmt.Errorf("insert geocode cache coord=%q: %w", addr, err)
		}
		pipe.Set(ctx, redisGeocodePrefix+addr, b, r.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: exec pipeline: %w", err)
	}

	return nil
}
