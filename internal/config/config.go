package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/DermCareGo/pkg/config"
)

// Config holds all configuration for the dermcare service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8000"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"dermcare"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"dermcare_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"dermcare_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTExpiry time.Duration `env:"JWT_TOKEN_EXPIRY" envDefault:"30m"`

	// Recommendation links
	RecommendationTTL time.Duration `env:"RECOMMENDATION_TTL" envDefault:"168h"`

	// Product catalog
	CatalogBaseURL string        `env:"CATALOG_BASE_URL" envDefault:"https://dummyjson.com"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`

	// Catalog circuit breaker
	CatalogCBMaxRequests  uint32        `env:"CATALOG_CB_MAX_REQUESTS" envDefault:"1"`
	CatalogCBInterval     time.Duration `env:"CATALOG_CB_INTERVAL" envDefault:"60s"`
	CatalogCBTimeout      time.Duration `env:"CATALOG_CB_TIMEOUT" envDefault:"30s"`
	CatalogCBFailureRatio float64       `env:"CATALOG_CB_FAILURE_RATIO" envDefault:"0.5"`
	CatalogCBMinRequests  uint32        `env:"CATALOG_CB_MIN_REQUESTS" envDefault:"5"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.RecommendationTTL <= 0 {
		return nil, fmt.Errorf("invalid recommendation TTL: %s", cfg.RecommendationTTL)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == "change-this-to-a-secure-secret" {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
