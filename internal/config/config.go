// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Admin   AdminConfig
	Limits  LimitsConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// StoreConfig holds submission store and mirror settings.
type StoreConfig struct {
	// Backend selects the authoritative store: "csv" or "mongo" (default: csv)
	Backend string `env:"STORE_BACKEND" default:"csv"`

	// CSVPath is the flat-file store location when Backend is "csv"
	CSVPath string `env:"STORE_CSV_PATH" default:"data/submissions.csv"`

	// MirrorPath is the CSV backup rewritten after every successful mutation
	MirrorPath string `env:"MIRROR_PATH" default:"data/registrations-backup.csv"`

	// LedgerPath is the JSON file holding per-email edit counts
	LedgerPath string `env:"LEDGER_PATH" default:"data/edit-ledger.json"`

	// MongoURI is the MongoDB connection string (required when Backend is "mongo")
	MongoURI string `env:"MONGO_URI" envAlt:"MONGODB_URI"`

	// MongoDatabase is the database name for the mongo backend (default: eventreg)
	MongoDatabase string `env:"MONGO_DATABASE" default:"eventreg"`

	// MongoCollection is the collection holding event records (default: submissions)
	MongoCollection string `env:"MONGO_COLLECTION" default:"submissions"`

	// ConnectTimeout bounds the initial mongo connect + ping (default: 10s)
	ConnectTimeout time.Duration `env:"STORE_CONNECT_TIMEOUT" default:"10s"`
}

// AdminConfig holds the admin gate settings.
type AdminConfig struct {
	// Password is the shared admin secret (required).
	// Startup fails if unset so the admin surface never runs unauthenticated.
	Password string `env:"ADMIN_PASSWORD" required:"true"`
}

// LimitsConfig holds submission limits.
type LimitsConfig struct {
	// EditLimit is the maximum submissions per email, including the first (default: 3)
	EditLimit int `env:"EDIT_LIMIT" default:"3"`

	// FamilyLimit is the maximum family members per submission (default: 10)
	FamilyLimit int `env:"FAMILY_LIMIT" default:"10"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
