package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Scheduling
	PublishInterval time.Duration `json:"publish_interval"`

	// Persistence
	DBPath      string `json:"db_path"`
	StoragePath string `json:"storage_path"` // root holding the articles/ tree

	// Redis (published-input guard), optional
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	GuardTTL    time.Duration `json:"guard_ttl"`

	// AI Configuration
	AIApiKey     string        `json:"ai_api_key"`
	AIModel      string        `json:"ai_model"`
	AIImageModel string        `json:"ai_image_model"`
	AITimeout    time.Duration `json:"ai_timeout"`

	// CloudFlare R2 mirror, optional
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"r2_access_key"`
	R2SecretKey string `json:"r2_secret_key"`
	R2Bucket    string `json:"r2_bucket"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Security
	AdminAPIKey string `json:"admin_api_key"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Scheduling
		PublishInterval: getEnvAsDuration("PUBLISH_INTERVAL", 15*time.Minute),

		// Persistence
		DBPath:      getEnv("DB_PATH", "./data/postplan.db"),
		StoragePath: getEnv("STORAGE_PATH", "./data"),

		// Redis
		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "postplan:"),
		GuardTTL:    getEnvAsDuration("GUARD_TTL", 720*time.Hour), // 30 days

		// AI Configuration
		AIApiKey:     getEnv("AI_API_KEY", ""),
		AIModel:      getEnv("AI_MODEL", "gemini-pro"),
		AIImageModel: getEnv("AI_IMAGE_MODEL", "imagen-3.0"),
		AITimeout:    getEnvAsDuration("AI_TIMEOUT", 60*time.Second),

		// CloudFlare R2 mirror
		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "postplan"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		// Security
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if c.StoragePath == "" {
		return fmt.Errorf("STORAGE_PATH must not be empty")
	}
	if c.PublishInterval < time.Minute {
		return fmt.Errorf("PUBLISH_INTERVAL must be at least one minute, got %v", c.PublishInterval)
	}
	return nil
}

// MirrorEnabled reports whether the R2 mirror is fully configured
func (c *Config) MirrorEnabled() bool {
	return c.R2Endpoint != "" && c.R2AccessKey != "" && c.R2SecretKey != ""
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
