// Package config provides application configuration through environment variables and the
// YAML auth config file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	customValidation "github.com/allisson/authtokens/internal/validation"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// DBDriver is the database driver of the default store ("sqlite", "postgres" or "mysql").
	DBDriver string
	// DBConnectionString is the connection string of the default store.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration
	// DBStores lists extra named stores as "name=driver:dsn" entries separated by ";".
	DBStores string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// AuthConfigFile is the path of the YAML auth config file. A missing file means no
	// static tokens, no query and no managed mode.
	AuthConfigFile string

	// SigningSecret is the base64 encoded managed token signing secret.
	SigningSecret string
	// KMSKeyURI is the KMS key that SigningSecret is encrypted with. Empty means plaintext.
	KMSKeyURI string

	// RateLimitEnabled indicates whether per-actor rate limiting of management endpoints is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second for one actor.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for one actor.
	RateLimitBurst int

	// RateLimitCredentialEnabled indicates whether per-IP rate limiting of requests carrying a
	// credential is enabled.
	RateLimitCredentialEnabled bool
	// RateLimitCredentialRequestsPerSec is the number of credential requests allowed per second per IP.
	RateLimitCredentialRequestsPerSec float64
	// RateLimitCredentialBurst is the burst size for credential requests per IP.
	RateLimitCredentialBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of browser origins allowed to call the API.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load reads the configuration from the environment, after applying the nearest .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		DBDriver:             env.GetString("DB_DRIVER", "sqlite"),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", "file:authtokens.db"),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),
		DBStores:             env.GetString("DB_STORES", ""),

		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Auth
		AuthConfigFile: env.GetString("AUTH_CONFIG_FILE", "auth.yaml"),
		SigningSecret:  env.GetString("SIGNING_SECRET", ""),
		KMSKeyURI:      env.GetString("KMS_KEY_URI", ""),

		// Rate Limiting (management endpoints, per actor)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// Rate Limiting for requests carrying a credential (IP-based)
		RateLimitCredentialEnabled:        env.GetBool("RATE_LIMIT_CREDENTIAL_ENABLED", true),
		RateLimitCredentialRequestsPerSec: env.GetFloat64("RATE_LIMIT_CREDENTIAL_REQUESTS_PER_SEC", 20.0),
		RateLimitCredentialBurst:          env.GetInt("RATE_LIMIT_CREDENTIAL_BURST", 40),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "authtokens"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Validate checks values that would otherwise fail late, at first use.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DBDriver, validation.Required, validation.In("sqlite", "postgres", "mysql")),
		validation.Field(&c.DBConnectionString, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.SigningSecret, customValidation.NoWhitespace, customValidation.Base64),
		validation.Field(&c.MetricsNamespace, customValidation.Identifier),
		validation.Field(&c.RateLimitRequestsPerSec, validation.Min(0.0)),
		validation.Field(&c.RateLimitCredentialRequestsPerSec, validation.Min(0.0)),
	)
}

// GetGinMode returns gin's debug mode only when debug logging is requested.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// CORSOrigins splits CORSAllowOrigins on commas, dropping blanks.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// loadDotEnv loads the nearest .env file found walking up from the working directory.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
