// Package config provides environment-driven configuration for the service.
// An optional .env file is loaded first; real environment variables win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"nutribot/internal/profile"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Generator GeneratorConfig
	Profile   profile.Config
	Metrics   MetricsConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// CacheConfig holds response cache tunables
type CacheConfig struct {
	TTL                 time.Duration
	SimilarityThreshold float64
	CostPerCall         float64
	ExactCapacity       int
	PatternsPerUser     int

	// StaticResponsesPath optionally extends the built-in static table (YAML).
	StaticResponsesPath string

	// TemplatesPath optionally extends the built-in template library (YAML).
	TemplatesPath string
}

// GeneratorConfig holds the upstream LLM client configuration.
// An empty APIKey disables generation; misses then serve the fallback tier.
type GeneratorConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// MetricsConfig holds Prometheus exposure configuration
type MetricsConfig struct {
	Enabled bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Format is "json" (default) or "pretty" for local development.
	Format string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	// Optional; won't fail if not found
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Cache: CacheConfig{
			TTL:                 getEnvDuration("CACHE_TTL", 24*time.Hour),
			SimilarityThreshold: getEnvFloat("CACHE_SIMILARITY_THRESHOLD", 0.7),
			CostPerCall:         getEnvFloat("CACHE_COST_PER_CALL", 0.015),
			ExactCapacity:       getEnvInt("CACHE_EXACT_CAPACITY", 1000),
			PatternsPerUser:     getEnvInt("CACHE_PATTERNS_PER_USER", 50),
			StaticResponsesPath: os.Getenv("CACHE_STATIC_RESPONSES_PATH"),
			TemplatesPath:       os.Getenv("CACHE_TEMPLATES_PATH"),
		},
		Generator: GeneratorConfig{
			BaseURL: getEnv("GENERATOR_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  os.Getenv("GENERATOR_API_KEY"),
			Model:   getEnv("GENERATOR_MODEL", "gpt-4o-mini"),
		},
		Profile: profile.Config{
			Type: getEnv("PROFILE_STORE", profile.TypeMemory),
			SQLite: profile.SQLiteConfig{
				Path: getEnv("PROFILE_SQLITE_PATH", "data/nutribot.db"),
			},
			PostgreSQL: profile.PostgreSQLConfig{
				URL:      os.Getenv("PROFILE_POSTGRES_URL"),
				MaxConns: getEnvInt("PROFILE_POSTGRES_MAX_CONNS", 10),
			},
			MongoDB: profile.MongoDBConfig{
				URL:      os.Getenv("PROFILE_MONGODB_URL"),
				Database: getEnv("PROFILE_MONGODB_DATABASE", "nutribot"),
			},
			Redis: profile.RedisConfig{
				URL:       os.Getenv("PROFILE_REDIS_URL"),
				KeyPrefix: os.Getenv("PROFILE_REDIS_KEY_PREFIX"),
			},
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
		},
		Log: LogConfig{
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Cache.SimilarityThreshold <= 0 || cfg.Cache.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("CACHE_SIMILARITY_THRESHOLD must be in (0,1], got %v", cfg.Cache.SimilarityThreshold)
	}
	if cfg.Cache.TTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %v", cfg.Cache.TTL)
	}

	return cfg, nil
}

// getEnv returns the environment value or fallback when unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
