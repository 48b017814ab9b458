// Package config loads service settings from .env, an optional YAML file and
// the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	DBPath      string `yaml:"db_path"`
	DatabaseURL string `yaml:"database_url"`
	SeedPath    string `yaml:"seed_path"`
	RedisURL    string `yaml:"redis_url"`

	Geocoder           string        `yaml:"geocoder"`
	ORSAPIKey          string        `yaml:"ors_api_key"`
	GeocoderRPS        float64       `yaml:"geocoder_rps"`
	GeocodeCacheTTL    time.Duration `yaml:"geocode_cache_ttl"`
	ResolveTimeout     time.Duration `yaml:"resolve_timeout"`
	RouteStrategy      string        `yaml:"route_strategy"`
	RouteExactMax      int           `yaml:"route_exact_max"`
	ExactWorkers       int           `yaml:"exact_workers"`
	CoordEpsilon       float64       `yaml:"coord_epsilon"`
	ToggleRadiusMeters float64       `yaml:"toggle_radius_meters"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func defaults() Config {
	return Config{
		Port:               "8080",
		DBPath:             "data/app.db",
		SeedPath:           "data/seeds/waypoints.json",
		Geocoder:           "nominatim",
		GeocoderRPS:        1,
		GeocodeCacheTTL:    30 * 24 * time.Hour,
		ResolveTimeout:     10 * time.Second,
		RouteStrategy:      "auto",
		RouteExactMax:      8,
		ExactWorkers:       1,
		CoordEpsilon:       1e-9,
		ToggleRadiusMeters: 500,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Load reads .env (if present) into the environment, applies the YAML file
// named by CONFIG_FILE over the defaults, then lets environment variables win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load config: .env: %w", err)
	}

	cfg := defaults()

	if path := Get("CONFIG_FILE", ""); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func applyEnv(cfg *Config) error {
	cfg.Port = Get("PORT", cfg.Port)
	cfg.DBPath = Get("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.SeedPath = Get("SEED_PATH", cfg.SeedPath)
	cfg.RedisURL = Get("REDIS_URL", cfg.RedisURL)
	cfg.Geocoder = strings.ToLower(Get("GEOCODER", cfg.Geocoder))
	cfg.ORSAPIKey = Get("ORS_API_KEY", cfg.ORSAPIKey)
	cfg.RouteStrategy = Get("ROUTE_STRATEGY", cfg.RouteStrategy)
	cfg.LogLevel = Get("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = Get("LOG_FORMAT", cfg.LogFormat)

	var err error
	if cfg.GeocoderRPS, err = getFloat("GEOCODER_RPS", cfg.GeocoderRPS); err != nil {
		return err
	}
	if cfg.CoordEpsilon, err = getFloat("COORD_EPSILON", cfg.CoordEpsilon); err != nil {
		return err
	}
	if cfg.ToggleRadiusMeters, err = getFloat("TOGGLE_RADIUS_METERS", cfg.ToggleRadiusMeters); err != nil {
		return err
	}
	if cfg.RouteExactMax, err = getInt("ROUTE_EXACT_MAX", cfg.RouteExactMax); err != nil {
		return err
	}
	if cfg.ExactWorkers, err = getInt("EXACT_WORKERS", cfg.ExactWorkers); err != nil {
		return err
	}
	if cfg.ResolveTimeout, err = getDuration("RESOLVE_TIMEOUT", cfg.ResolveTimeout); err != nil {
		return err
	}
	if cfg.GeocodeCacheTTL, err = getDuration("GEOCODE_CACHE_TTL", cfg.GeocodeCacheTTL); err != nil {
		return err
	}
	return nil
}

func (c Config) validate() error {
	switch c.Geocoder {
	case "nominatim", "ors", "static":
	default:
		return fmt.Errorf("GEOCODER must be nominatim, ors or static, got %q", c.Geocoder)
	}
	if c.Geocoder == "ors" && c.ORSAPIKey == "" {
		return errors.New("ORS_API_KEY is required when GEOCODER=ors")
	}
	if c.RouteExactMax < 1 {
		return fmt.Errorf("ROUTE_EXACT_MAX must be positive, got %d", c.RouteExactMax)
	}
	if c.CoordEpsilon < 0 {
		return fmt.Errorf("COORD_EPSILON must not be negative, got %v", c.CoordEpsilon)
	}
	return nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
