package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Notifier NotifierConfig
	OTEL     OTELConfig
	Env      string
}

// ServerConfig holds HTTP server configuration. AllowedOrigins feeds
// the CORS middleware; a single "*" entry allows any origin.
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SMTPConfig holds outbound email configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// NotifierConfig holds the reservation notifier sweep configuration
type NotifierConfig struct {
	Enabled        bool
	Interval       time.Duration
	StartReminder  time.Duration
	EndReminder    time.Duration
	OverdueGrace   time.Duration
	LookbackWindow time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "parking_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			From:     getEnv("SMTP_FROM", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		Notifier: NotifierConfig{
			Enabled:        getEnvAsBool("NOTIFIER_ENABLED", true),
			Interval:       getEnvAsDuration("NOTIFIER_INTERVAL", 5*time.Minute),
			StartReminder:  getEnvAsDuration("NOTIFIER_START_REMINDER", 60*time.Minute),
			EndReminder:    getEnvAsDuration("NOTIFIER_END_REMINDER", 15*time.Minute),
			OverdueGrace:   getEnvAsDuration("NOTIFIER_OVERDUE_GRACE", 15*time.Minute),
			LookbackWindow: getEnvAsDuration("NOTIFIER_LOOKBACK", 24*time.Hour),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "parking-reservation"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Env: getEnv("APP_ENV", "development"),
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the SMTP server address
func (c *SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
