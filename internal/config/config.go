package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage backends selectable through STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
	StorageMemory   = "memory"
)

// Config holds all configuration for the dm-server service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"dm-server"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8090"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Storage
	StorageDriver        string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseWriteDSN     string        `env:"DB_POSTGRESQL_WRITE_DSN"`
	DatabaseReadDSN      string        `env:"DB_POSTGRESQL_READ1_DSN"` // Optional read replica
	DBMaxIdleConns       int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns       int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnMaxLifetime    time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	MongoURI             string        `env:"MONGO_URI"`
	MongoDatabase        string        `env:"MONGO_DATABASE" envDefault:"dm"`
	MongoUseTransactions bool          `env:"MONGO_TRANSACTIONS" envDefault:"false"`

	// Sessions and credentials
	SessionSigningSecret string        `env:"SESSION_SIGNING_SECRET"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieSecure         bool          `env:"COOKIE_SECURE" envDefault:"false"`
	BcryptCost           int           `env:"BCRYPT_COST" envDefault:"10"`
	LoginRateLimitRPS    float64       `env:"LOGIN_RATE_LIMIT_RPS" envDefault:"1"`
	LoginRateLimitBurst  int           `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"10"`

	// Messaging
	MessageDeleteRequireSender bool   `env:"MESSAGE_DELETE_REQUIRE_SENDER" envDefault:"false"`
	OrphanSweepSchedule        string `env:"ORPHAN_SWEEP_SCHEDULE" envDefault:"*/10 * * * *"`

	// HTTP
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StoragePostgres:
		if strings.TrimSpace(c.DatabaseWriteDSN) == "" {
			return fmt.Errorf("DB_POSTGRESQL_WRITE_DSN is required when STORAGE_DRIVER is postgres")
		}
	case StorageMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("MONGO_URI is required when STORAGE_DRIVER is mongo")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.BcryptCost < 10 || c.BcryptCost > 12 {
		return fmt.Errorf("BCRYPT_COST must be between 10 and 12, got %d", c.BcryptCost)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.LoginRateLimitRPS <= 0 || c.LoginRateLimitBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT_RPS and LOGIN_RATE_LIMIT_BURST must be positive")
	}
	if c.EnableTracing && strings.TrimSpace(c.OTLPEndpoint) == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is true")
	}
	return nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// SignedSessions reports whether session cookies carry a signed token
// instead of the raw user id.
func (c *Config) SignedSessions() bool {
	return c.SessionSigningSecret != ""
}
