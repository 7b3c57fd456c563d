// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// BaseURL is the externally visible origin used when building absolute
	// product URLs (emails, QR codes).
	BaseURL string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache + session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AdminEmails is the bootstrap admin allow-list, loaded once at start.
	AdminEmails []string

	// S3-compatible storage for digital product files.
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3FilesBucket   string
	DownloadLinkTTL time.Duration

	// Transactional mail provider (HTTP API).
	MailEndpoint string
	MailAPIKey   string
	MailFrom     string

	// Payment gateway used to verify payment IDs before recording purchases.
	PaymentEndpoint string
	PaymentAPIKey   string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file is honored when present.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	// Best-effort: absence of a .env file is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Host:    envOrDefault("APP_HOST", "0.0.0.0"),
		Port:    envOrDefault("APP_PORT", "8080"),
		Env:     envOrDefault("APP_ENV", "development"),
		BaseURL: envOrDefault("APP_BASE_URL", "http://localhost:8080"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "storefront"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "storefront"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AdminEmails: splitList(os.Getenv("ADMIN_EMAILS")),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "eu-central"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3FilesBucket:   envOrDefault("S3_FILES_BUCKET", "storefront-files"),
		DownloadLinkTTL: durationOrDefault("DOWNLOAD_LINK_TTL", 15*time.Minute),

		MailEndpoint: os.Getenv("MAIL_ENDPOINT"),
		MailAPIKey:   os.Getenv("MAIL_API_KEY"),
		MailFrom:     envOrDefault("MAIL_FROM", "orders@localhost"),

		PaymentEndpoint: os.Getenv("PAYMENT_ENDPOINT"),
		PaymentAPIKey:   os.Getenv("PAYMENT_API_KEY"),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if len(cfg.AdminEmails) == 0 {
			return nil, fmt.Errorf("ADMIN_EMAILS must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationOrDefault parses a duration environment variable, returning the
// fallback when unset or malformed.
func durationOrDefault(key string, fallback time.Duration) time.Duration {
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

// splitList splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
