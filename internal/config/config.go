// Package config provides configuration management for the treasury
// reporting service. It loads configuration from environment variables
// and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Access    AccessConfig
	Gateway   GatewayConfig
	Scheduler SchedulerConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds Postgres configuration for the treasury store
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// RedisConfig holds Redis configuration for the registry stores.
// An empty Host disables Redis and the service falls back to the
// in-memory stores (registrations are then lost on restart).
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// AccessConfig holds the authorization allow-list
type AccessConfig struct {
	AllowedEmails []string
	AdminEmails   []string
}

// GatewayConfig holds the outbound chat-gateway client configuration
type GatewayConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// SchedulerConfig holds the wall-clock trigger times (HH:MM) and the
// timezone they are interpreted in
type SchedulerConfig struct {
	Timezone        string
	DailyDigestAt   string
	DueTomorrowAt   string
	ValidityCheckAt string
}

// RateLimitConfig holds per-chat webhook rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env file is optional - environment variables can be set directly
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "tesoreria"),
				User:           getEnv("POSTGRES_USER", "tesoreria"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 20),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", ""),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 20),
			},
		},
		Access: AccessConfig{
			AllowedEmails: getEnvAsList("ACCESS_ALLOWED_EMAILS"),
			AdminEmails:   getEnvAsList("ACCESS_ADMIN_EMAILS"),
		},
		Gateway: GatewayConfig{
			BaseURL: getEnv("GATEWAY_BASE_URL", ""),
			Token:   getEnv("GATEWAY_TOKEN", ""),
			Timeout: getEnvAsDuration("GATEWAY_TIMEOUT", 10*time.Second),
		},
		Scheduler: SchedulerConfig{
			Timezone:        getEnv("SCHEDULER_TIMEZONE", "America/Argentina/Buenos_Aires"),
			DailyDigestAt:   getEnv("SCHEDULER_DAILY_DIGEST_AT", "09:00"),
			DueTomorrowAt:   getEnv("SCHEDULER_DUE_TOMORROW_AT", "18:00"),
			ValidityCheckAt: getEnv("SCHEDULER_VALIDITY_CHECK_AT", "10:00"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 30),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if len(c.Access.AllowedEmails) == 0 {
		return fmt.Errorf("ACCESS_ALLOWED_EMAILS must list at least one email")
	}
	if c.Database.Postgres.MaxConnections <= 0 {
		return fmt.Errorf("POSTGRES_MAX_CONNECTIONS must be positive")
	}
	for _, at := range []string{c.Scheduler.DailyDigestAt, c.Scheduler.DueTomorrowAt, c.Scheduler.ValidityCheckAt} {
		if _, err := time.Parse("15:04", at); err != nil {
			return fmt.Errorf("invalid scheduler time %q: %w", at, err)
		}
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("invalid scheduler timezone %q: %w", c.Scheduler.Timezone, err)
	}
	return nil
}

// RedisEnabled reports whether a Redis backend is configured for the
// registry stores
func (c *Config) RedisEnabled() bool {
	return c.Database.Redis.Host != ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList gets a comma-separated environment variable as a trimmed,
// lower-cased list. Empty entries are dropped.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}
