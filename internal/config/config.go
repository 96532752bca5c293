package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dpetrakis/pulsedash/internal/videos"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

const (
	// StoreMemory keeps reviews in process memory, seeded with the demo corpus.
	StoreMemory = "memory"
	// StorePostgres persists reviews in PostgreSQL.
	StorePostgres = "postgres"
)

// Duration is a time.Duration that unmarshals from yaml strings like "500ms"
// or "3s". Plain yaml integers are taken as nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var ns int64
	if err := value.Decode(&ns); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(ns)
	return nil
}

// SimulatorConfig tunes the simulated upload/moderation pipeline. Zero values
// fall back to the demo defaults.
type SimulatorConfig struct {
	UploadTick         Duration `yaml:"upload_tick"`
	MaxProgressStep    float64  `yaml:"max_progress_step"`
	MinProcessingDelay Duration `yaml:"min_processing_delay"`
	MaxProcessingDelay Duration `yaml:"max_processing_delay"`
	SafeProbability    *float64 `yaml:"safe_probability"` // pointer so 0 is expressible
	VideoTotalSize     int64    `yaml:"video_total_size"`
	ChunkSize          int64    `yaml:"chunk_size"`
}

// Config holds the application configuration.
type Config struct {
	APIPort    string `yaml:"api_port"`
	HealthPort string `yaml:"health_port"`

	// HTTP server timeouts (optional, defaults apply in server.go)
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// JWT signing secret (env var only). When empty, only unsigned tokens
	// (alg=none) are accepted — local development and testing only.
	// Normally in production it should be fetched from a secrets provider like Vault,
	// and not set via config file or env var.
	JWTSecret string `yaml:"-"`

	// ReviewStore selects the review repository: "memory" (default) or "postgres".
	ReviewStore string `yaml:"review_store"`

	// SeedReviews is how many mock reviews the memory store starts with.
	SeedReviews int `yaml:"seed_reviews"`

	// Database configuration (env vars only — secrets must not live in config.yaml).
	// Required only when review_store is "postgres".
	DBHost     string `yaml:"-"`
	DBPort     string `yaml:"-"`
	DBUser     string `yaml:"-"`
	DBPassword string `yaml:"-"`
	DBName     string `yaml:"-"`

	// Rate limiting configuration
	RateLimitRequests int           `yaml:"rate_limit_requests"` // Max requests per window (0 = disabled)
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`   // Time window for rate limiting

	Simulator SimulatorConfig `yaml:"simulator"`
}

// Load reads configuration with the following precedence (highest wins):
//  1. Environment variables
//  2. YAML config file (path from CONFIG_PATH env var, or "config.yaml")
//
// Database settings are loaded exclusively from environment variables and are
// only required when the postgres review store is selected.
func Load() (*Config, error) {
	cfg := &Config{}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("API_PORT"); v != "" {
		cfg.APIPort = v
	}
	if v := os.Getenv("HEALTH_PORT"); v != "" {
		cfg.HealthPort = v
	}

	if cfg.APIPort == "" {
		return nil, fmt.Errorf("api_port is required (set via config file or API_PORT env var)")
	}
	if cfg.HealthPort == "" {
		return nil, fmt.Errorf("health_port is required (set via config file or HEALTH_PORT env var)")
	}

	// Review store selection
	if v := os.Getenv("REVIEW_STORE"); v != "" {
		cfg.ReviewStore = v
	}
	if cfg.ReviewStore == "" {
		cfg.ReviewStore = StoreMemory
	}
	if cfg.ReviewStore != StoreMemory && cfg.ReviewStore != StorePostgres {
		return nil, fmt.Errorf("review_store must be %q or %q, got %q", StoreMemory, StorePostgres, cfg.ReviewStore)
	}

	if v := os.Getenv("SEED_REVIEWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SeedReviews = n
		}
	}
	if cfg.SeedReviews == 0 {
		cfg.SeedReviews = 342 // demo dataset size
	}

	// Database configuration from environment variables
	cfg.DBHost = os.Getenv("POSTGRES_HOST")
	cfg.DBPort = os.Getenv("POSTGRES_PORT")
	cfg.DBUser = os.Getenv("POSTGRES_USER")
	cfg.DBPassword = os.Getenv("POSTGRES_PASSWORD")
	cfg.DBName = os.Getenv("POSTGRES_DB")

	// JWT secret (optional — when empty only unsigned tokens are accepted)
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	// HTTP server timeouts (optional — defaults apply in server.go if zero)
	if v := os.Getenv("READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReadTimeout = d
		}
	}
	if v := os.Getenv("WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.WriteTimeout = d
		}
	}
	if v := os.Getenv("IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.IdleTimeout = d
		}
	}

	if cfg.ReviewStore == StorePostgres {
		if cfg.DBHost == "" {
			return nil, fmt.Errorf("POSTGRES_HOST env var is required when review_store is postgres")
		}
		if cfg.DBPort == "" {
			return nil, fmt.Errorf("POSTGRES_PORT env var is required when review_store is postgres")
		}
		if cfg.DBUser == "" {
			return nil, fmt.Errorf("POSTGRES_USER env var is required when review_store is postgres")
		}
		if cfg.DBPassword == "" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD env var is required when review_store is postgres")
		}
		if cfg.DBName == "" {
			return nil, fmt.Errorf("POSTGRES_DB env var is required when review_store is postgres")
		}
	}

	// Rate limiting configuration (env vars override config file)
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitRequests = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RateLimitWindow = d
		}
	}

	// Apply rate limiting defaults if partially configured
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow == 0 {
		cfg.RateLimitWindow = time.Minute // Default window: 1 minute
	}

	if p := cfg.Simulator.SafeProbability; p != nil && (*p < 0 || *p > 1) {
		return nil, fmt.Errorf("simulator.safe_probability must be within [0, 1], got %v", *p)
	}
	if cfg.Simulator.MaxProcessingDelay != 0 && cfg.Simulator.MinProcessingDelay > cfg.Simulator.MaxProcessingDelay {
		return nil, fmt.Errorf("simulator.min_processing_delay %s exceeds max_processing_delay %s",
			time.Duration(cfg.Simulator.MinProcessingDelay), time.Duration(cfg.Simulator.MaxProcessingDelay))
	}

	return cfg, nil
}

// PostgresConnString returns a PostgreSQL connection string.
func (c *Config) PostgresConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// APIAddr returns the listen address for the API server.
func (c *Config) APIAddr() string {
	return ":" + c.APIPort
}

// HealthAddr returns the listen address for the health check server.
func (c *Config) HealthAddr() string {
	return ":" + c.HealthPort
}

// SimulatorConfig merges the configured simulator overrides onto the demo
// defaults and returns the resulting pipeline configuration.
func (c *Config) SimulatorConfig() videos.Config {
	vc := videos.DefaultConfig()
	s := c.Simulator

	if s.UploadTick > 0 {
		vc.UploadTick = time.Duration(s.UploadTick)
	}
	if s.MaxProgressStep > 0 {
		vc.MaxProgressStep = s.MaxProgressStep
	}
	if s.MinProcessingDelay > 0 {
		vc.MinProcessingDelay = time.Duration(s.MinProcessingDelay)
	}
	if s.MaxProcessingDelay > 0 {
		vc.MaxProcessingDelay = time.Duration(s.MaxProcessingDelay)
	}
	if s.SafeProbability != nil {
		vc.SafeProbability = *s.SafeProbability
	}
	if s.VideoTotalSize > 0 {
		vc.TotalSize = s.VideoTotalSize
	}
	if s.ChunkSize > 0 {
		vc.ChunkSize = s.ChunkSize
	}
	return vc
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Requests int           // Max requests per window (0 = disabled)
	Window   time.Duration // Time window for rate limiting
}

// RateLimitConfig returns the rate limiting configuration.
func (c *Config) RateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: c.RateLimitRequests,
		Window:   c.RateLimitWindow,
	}
}
