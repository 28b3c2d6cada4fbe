// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Auth
	JWTSecret    string
	JWTIssuer    string
	JWTAudience  string
	JWTTTLHours  int
	DevTokens    bool // enable POST /api/auth/token for local development
	DevTokenCity string

	// Mail notifications
	SMTPHost     string // Optional, logs notifications if not set
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailTo       string

	// File storage
	FilesDir string // directory for uploaded documents

	// Observability
	OTLPEndpoint string // Optional, traces are dropped if not set

	// Security
	RateLimitRPS   int
	AllowedOrigins string
}

const (
	DefaultPort        = "8080"
	DefaultEnv         = "development"
	DefaultLogLevel    = "info"
	DefaultJWTIssuer   = "cityinfo"
	DefaultJWTAudience = "cityinfoapi"
	DefaultJWTTTL      = 1
	DefaultSMTPPort    = 587
	DefaultFilesDir    = "uploads"
	DefaultRateLimit   = 100
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", DefaultPort),
		Env:            getEnv("ENV", DefaultEnv),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:    os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		JWTSecret:      os.Getenv("JWT_SECRET"),   // Required, no default
		JWTIssuer:      getEnv("JWT_ISSUER", DefaultJWTIssuer),
		JWTAudience:    getEnv("JWT_AUDIENCE", DefaultJWTAudience),
		JWTTTLHours:    int(getEnvInt64("JWT_TTL_HOURS", DefaultJWTTTL)),
		DevTokens:      getEnvBool("DEV_TOKENS", false),
		DevTokenCity:   getEnv("DEV_TOKEN_CITY", "Antwerp"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       int(getEnvInt64("SMTP_PORT", DefaultSMTPPort)),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		MailFrom:       getEnv("MAIL_FROM", "noreply@cityinfo.local"),
		MailTo:         getEnv("MAIL_TO", "admin@cityinfo.local"),
		FilesDir:       getEnv("FILES_DIR", DefaultFilesDir),
		OTLPEndpoint:   os.Getenv("OTLP_ENDPOINT"),
		RateLimitRPS:   int(getEnvInt64("RATE_LIMIT_RPS", int64(DefaultRateLimit))),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.JWTTTLHours < 1 {
		return fmt.Errorf("JWT_TTL_HOURS must be at least 1")
	}
	if c.SMTPHost != "" && c.MailTo == "" {
		return fmt.Errorf("MAIL_TO is required when SMTP_HOST is set")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
