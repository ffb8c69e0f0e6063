package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // HTTP port the engine serves on
	DBConnStr       string        // Goal store connection string
	RedisAddr       string        // Redis server address
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	SessionKey      string        // Redis key the auth flow writes the session token to
	SessionSecret   string        // Secret validating session tokens
	AdminToken      string        // Token guarding the bulk lifecycle endpoints
	ProviderBaseURL string        // Base URL of the record provider services
	PollInterval    time.Duration // Identity monitor sampling cadence
	IsProd          bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	pollInterval := 2 * time.Second
	if ms, err := strconv.Atoi(os.Getenv("POLL_INTERVAL_MS")); err == nil && ms > 0 {
		pollInterval = time.Duration(ms) * time.Millisecond
	}

	return &Config{
		AppPort:         envOr("APP_PORT", "8080"),
		DBConnStr:       dbConnStr(),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		RedisPass:       os.Getenv("REDIS_PASS"),
		RedisDB:         redisDB,
		SessionKey:      envOr("SESSION_KEY", "session:current"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		ProviderBaseURL: envOr("PROVIDER_BASE_URL", "http://localhost:9000"),
		PollInterval:    pollInterval,
		IsProd:          os.Getenv("IS_PROD") == "true",
	}
}

// dbConnStr builds the goal store connection string, preferring an
// explicit DB_CONN_STR and falling back to individual vars (Docker
// friendly).
func dbConnStr() string {
	if s := os.Getenv("DB_CONN_STR"); s != "" {
		return s
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "netfolio"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
