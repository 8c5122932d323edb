package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the service settings.
// Precedence: environment (including .env) over the YAML file over defaults.
type Config struct {
	Port           string   `yaml:"port"`
	DBDriver       string   `yaml:"db_driver"`
	DatabaseURL    string   `yaml:"database_url"`
	SeedPath       string   `yaml:"seed_path"`
	RedisURL       string   `yaml:"redis_url"`
	KafkaBrokers   []string `yaml:"kafka_brokers"`
	KafkaTopic     string   `yaml:"kafka_topic"`
	OriginID       int      `yaml:"origin_id"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"`
	RunsPerSecond  float64  `yaml:"runs_per_second"`
	RunsBurst      int      `yaml:"runs_burst"`
	RouteCacheKind string   `yaml:"route_cache"`
	ORSAPIKey      string   `yaml:"ors_api_key"`
	ORSBaseURL     string   `yaml:"ors_base_url"`
	ORSCountry     string   `yaml:"ors_country"`
}

func defaults() Config {
	return Config{
		Port:           "8080",
		DBDriver:       "sqlite",
		DatabaseURL:    "data/app.db",
		SeedPath:       "data/seeds/fleet.json",
		KafkaTopic:     "charging-runs",
		OriginID:       1,
		LogLevel:       "info",
		LogFormat:      "text",
		RunsPerSecond:  1,
		RunsBurst:      3,
		RouteCacheKind: "sql",
	}
}

// Load reads .env, then CONFIG_FILE (if set), then environment overrides.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = Get("PORT", cfg.Port)
	cfg.DBDriver = Get("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.SeedPath = Get("SEED_PATH", cfg.SeedPath)
	cfg.RedisURL = Get("REDIS_URL", cfg.RedisURL)
	cfg.KafkaTopic = Get("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.LogLevel = Get("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = Get("LOG_FORMAT", cfg.LogFormat)
	cfg.RouteCacheKind = Get("ROUTE_CACHE", cfg.RouteCacheKind)
	cfg.ORSAPIKey = Get("ORS_API_KEY", cfg.ORSAPIKey)
	cfg.ORSBaseURL = Get("ORS_BASE_URL", cfg.ORSBaseURL)
	cfg.ORSCountry = Get("ORS_COUNTRY", cfg.ORSCountry)

	if v := Get("KAFKA_BROKERS", ""); v != "" {
		cfg.KafkaBrokers = splitList(v)
	}

	if v := Get("ORIGIN_ID", ""); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("load config: ORIGIN_ID %q: %w", v, err)
		}
		cfg.OriginID = id
	}

	if v := Get("RUNS_PER_SECOND", ""); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("load config: RUNS_PER_SECOND %q: %w", v, err)
		}
		cfg.RunsPerSecond = rps
	}

	if v := Get("RUNS_BURST", ""); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("load config: RUNS_BURST %q: %w", v, err)
		}
		cfg.RunsBurst = burst
	}

	return nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("load config: DATABASE_URL is required")
	}
	if c.OriginID < 1 {
		return fmt.Errorf("load config: origin id must be positive, got %d", c.OriginID)
	}
	if c.RunsPerSecond <= 0 || c.RunsBurst < 1 {
		return fmt.Errorf("load config: invalid rate limit %v/s burst %d", c.RunsPerSecond, c.RunsBurst)
	}
	switch c.RouteCacheKind {
	case "sql", "redis", "none":
	default:
		return fmt.Errorf("load config: unknown route cache %q", c.RouteCacheKind)
	}
	return nil
}

// Get returns the trimmed environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
