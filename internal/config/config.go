package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the server's runtime configuration, loaded from .env and the
// environment.
type Config struct {
	DatabaseURL string
	Port        string
	APIKey      string

	RedisAddr    string // empty disables the seat map cache
	NATSURL      string // empty disables order events
	MetricsAddr  string // empty disables the metrics listener
	SeedPath     string // empty skips seeding on startup
	InitSchema   bool
	ExpandEvery  time.Duration
	HorizonDays  int
	SeatCacheTTL time.Duration
}

// Load reads configuration from .env (when present) and the environment.
func Load() (*Config, error) {
	// Load .env into the environment; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        Get("PORT", "8080"),
		APIKey:      os.Getenv("API_KEY"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		NATSURL:     os.Getenv("NATS_URL"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		SeedPath:    os.Getenv("SEED_PATH"),
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("API_KEY is required")
	}

	cfg.InitSchema = boolEnv("INIT_SCHEMA")

	if v := os.Getenv("EXPAND_INTERVAL_MIN"); v != "" {
		min, err := strconv.Atoi(v)
		if err != nil || min <= 0 {
			return nil, fmt.Errorf("invalid EXPAND_INTERVAL_MIN: %q", v)
		}
		cfg.ExpandEvery = time.Duration(min) * time.Minute
	} else {
		cfg.ExpandEvery = 6 * time.Hour
	}

	if v := os.Getenv("EXPAND_HORIZON_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid EXPAND_HORIZON_DAYS: %q", v)
		}
		cfg.HorizonDays = days
	} else {
		cfg.HorizonDays = 30
	}

	if v := os.Getenv("SEAT_CACHE_TTL_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return nil, fmt.Errorf("invalid SEAT_CACHE_TTL_SEC: %q", v)
		}
		cfg.SeatCacheTTL = time.Duration(sec) * time.Second
	} else {
		cfg.SeatCacheTTL = 30 * time.Second
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}
