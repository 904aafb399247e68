package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	UserID    string

	// Entry store
	DatabaseDriver  string
	DatabaseURL     string
	SQLitePath      string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	AutoMigrate     bool

	// Insights cache
	InsightsCacheEnabled bool
	RedisURL             string
	InsightsCacheTTL     time.Duration

	// RabbitMQ
	RabbitMQURL string

	// HTTP API
	HTTPAddr string

	// Analysis
	AnalysisTimeout time.Duration
	SuggestionSeed  uint64
	FaceModelURL    string
	SpeechModelURL  string
	UpstreamTimeout time.Duration
	BreakerFailures int
	BreakerCooldown time.Duration

	// Worker
	WorkerHealthAddr string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),
		UserID:    getEnv("MOODSPHERE_USER_ID", "default_user"),

		DatabaseDriver:  getEnv("DATABASE_DRIVER", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SQLitePath:      getEnv("SQLITE_PATH", ""),
		MongoURI:        getEnv("MONGODB_URI", ""),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "feelwise_db"),
		MongoCollection: getEnv("MONGODB_COLLECTION", "journals"),
		AutoMigrate:     getBoolEnv("AUTO_MIGRATE", true),

		InsightsCacheEnabled: getBoolEnv("INSIGHTS_CACHE", true),
		RedisURL:             getEnv("REDIS_URL", ""),
		InsightsCacheTTL:     getDurationEnv("INSIGHTS_CACHE_TTL", 10*time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		HTTPAddr: getEnv("HTTP_ADDR", ":8004"),

		AnalysisTimeout: getDurationEnv("ANALYSIS_TIMEOUT", 5*time.Second),
		SuggestionSeed:  getUintEnv("SUGGESTION_SEED", 0),
		FaceModelURL:    getEnv("FACE_MODEL_URL", ""),
		SpeechModelURL:  getEnv("SPEECH_MODEL_URL", ""),
		UpstreamTimeout: getDurationEnv("UPSTREAM_TIMEOUT", 10*time.Second),
		BreakerFailures: getIntEnv("BREAKER_FAILURES", 5),
		BreakerCooldown: getDurationEnv("BREAKER_COOLDOWN", 30*time.Second),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasRedis reports whether an insights cache is configured.
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

// HasRabbitMQ reports whether events go to a broker rather than the
// in-process bus.
func (c *Config) HasRabbitMQ() bool {
	return c.RabbitMQURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getUintEnv(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if u, err := strconv.ParseUint(value, 10, 64); err == nil {
			return u
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
