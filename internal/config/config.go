// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/receiptsplit/pkg/logging"
)

type Config struct {
	// HTTP server
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// CORS
	AllowedOrigin string

	// Logging
	LogLevel  string
	LogFormat string

	// Auth
	JWTSecret    string
	JWTIssuer    string
	AuthRequired bool

	// Metrics
	MetricsPath string
}

// Load reads a .env file from the working directory if one exists, then
// builds the config from environment variables.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from environment variables only.
func FromEnv() *Config {
	return &Config{
		Port:            getEnvInt("PORT", 8080),
		ReadTimeout:     getEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", string(logging.FormatTint)),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTIssuer:    getEnv("JWT_ISSUER", ""),
		AuthRequired: getEnvBool("AUTH_REQUIRED", false),

		MetricsPath: getEnv("METRICS_PATH", "/metrics"),
	}
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}

	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"READ_TIMEOUT", c.ReadTimeout},
		{"WRITE_TIMEOUT", c.WriteTimeout},
		{"SHUTDOWN_TIMEOUT", c.ShutdownTimeout},
	}
	for _, to := range timeouts {
		if to.d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %s", to.name, to.d))
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		problems = append(problems, err.Error())
	}

	if c.AuthRequired && c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required when AUTH_REQUIRED is true")
	}

	if !strings.HasPrefix(c.MetricsPath, "/") {
		problems = append(problems, fmt.Sprintf("invalid metrics path '%s': must start with '/'", c.MetricsPath))
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(problems, "; "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AuthEnabled reports whether bearer tokens are checked at all.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// SlogLevel returns the parsed log level, info when invalid.
func (c *Config) SlogLevel() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// Format returns the parsed log format, tint when invalid.
func (c *Config) Format() logging.Format {
	format, _ := logging.ParseFormat(c.LogFormat)
	return format
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		// Keep an impossible value so Validate reports it
		return -1
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		return 0
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
