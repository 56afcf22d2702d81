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
	NodeEnv   string
	Port      string
	JWTSecret string
	EncKey    string
	Location  *time.Location
	Database  DatabaseConfig
	RefNumber RefNumberConfig
	Beacukai  BeacukaiConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	Username   string
	Password   string
	Database   string
	SQLitePath string
	Silent     bool
}

// RefNumberConfig controls document reference number allocation
type RefNumberConfig struct {
	Prefix string // exactly 4 characters, e.g. "TPSO"
}

// BeacukaiConfig holds settings for the customs authority SOAP services
type BeacukaiConfig struct {
	Services        []string      // service names expected to have credentials
	Timeout         time.Duration // bound on a single SOAP call
	BulkConcurrency int           // workers used by bulk sends (1 = sequential)
	UploadAction    string        // SOAPAction header for the upload operation
	StatusAction    string        // SOAPAction header for the status operation
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	encKey := os.Getenv("ENC_KEY")
	if encKey == "" {
		return nil, fmt.Errorf("ENC_KEY is required")
	}

	loc, err := time.LoadLocation(getEnv("TZ_LOCATION", "Asia/Jakarta"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_LOCATION: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("SOAP_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SOAP_TIMEOUT: %w", err)
	}

	concurrency, err := strconv.Atoi(getEnv("BULK_CONCURRENCY", "1"))
	if err != nil || concurrency < 1 {
		return nil, fmt.Errorf("BULK_CONCURRENCY must be a positive integer")
	}

	cfg := &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3210"),
		JWTSecret: jwtSecret,
		EncKey:    encKey,
		Location:  loc,
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("PG_HOST", "localhost"),
			Port:       getEnv("PG_PORT", "5432"),
			Username:   getEnv("PG_USERNAME", "postgres"),
			Password:   os.Getenv("PG_PASSWORD"),
			Database:   getEnv("PG_DATABASE", "tps40"),
			SQLitePath: getEnv("SQLITE_PATH", "tps40.db"),
			Silent:     getEnv("DB_LOG_SILENT", "false") == "true",
		},
		RefNumber: RefNumberConfig{
			Prefix: getEnv("REF_PREFIX", "TPSO"),
		},
		Beacukai: BeacukaiConfig{
			Services:        splitList(getEnv("BEACUKAI_SERVICES", "beacukai_cocotangki,beacukai_status")),
			Timeout:         timeout,
			BulkConcurrency: concurrency,
			UploadAction:    getEnv("BEACUKAI_UPLOAD_ACTION", "http://services.beacukai.go.id/CoCoTangki"),
			StatusAction:    getEnv("BEACUKAI_STATUS_ACTION", "http://services.beacukai.go.id/GetResponPlp"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that cannot be expressed as defaults
func (c *Config) Validate() error {
	if len(c.RefNumber.Prefix) != 4 {
		return fmt.Errorf("REF_PREFIX must be exactly 4 characters, got %q", c.RefNumber.Prefix)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if len(c.Beacukai.Services) == 0 {
		return fmt.Errorf("BEACUKAI_SERVICES must list at least one service")
	}
	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
