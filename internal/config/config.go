package config

import (
	"fmt"
	"os"
)

// Config holds all server settings, sourced from the environment.
type Config struct {
	Port        string
	Environment string

	LogLevel string
	LogFile  string

	// Database: either a full DATABASE_URL or individual components.
	// DBDriver "sqlite" switches to an embedded database for development.
	DatabaseURL string
	DBDriver    string
	SQLitePath  string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	SessionSecret string

	// Image storage: "local" writes under MediaDir, "s3" uploads to AWS.
	StorageBackend string
	MediaDir       string
	AWSRegion      string
	AWSBucket      string
	CDNBaseURL     string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  getEnvOrDefault("LOG_FILE", "server.log"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBDriver:    getEnvOrDefault("DB_DRIVER", "postgres"),
		SQLitePath:  getEnvOrDefault("SQLITE_PATH", "inkpost.db"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionSecret: os.Getenv("SESSION_SECRET"),

		StorageBackend: getEnvOrDefault("STORAGE_BACKEND", "local"),
		MediaDir:       getEnvOrDefault("MEDIA_DIR", "media"),
		AWSRegion:      os.Getenv("AWS_REGION"),
		AWSBucket:      os.Getenv("AWS_BUCKET"),
		CDNBaseURL:     os.Getenv("CDN_BASE_URL"),
	}

	if cfg.SessionSecret == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
		}
		cfg.SessionSecret = "dev-only-session-secret"
	}

	if cfg.StorageBackend == "s3" && cfg.AWSBucket == "" {
		return nil, fmt.Errorf("AWS_BUCKET is required when STORAGE_BACKEND=s3")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
