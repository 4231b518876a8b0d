package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/yungbote/peptide-insights-backend/internal/data/db"
	"github.com/yungbote/peptide-insights-backend/internal/observability"
)

const (
	AnalyticsSourcePostgres = "postgres"
	AnalyticsSourceMongo    = "mongo"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	PostgresHost            string        `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort            string        `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser            string        `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword        string        `envconfig:"POSTGRES_PASSWORD"`
	PostgresName            string        `envconfig:"POSTGRES_NAME" default:"peptide_insights"`
	PostgresSSLMode         string        `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	PostgresMaxOpenConns    int           `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"20"`
	PostgresMaxIdleConns    int           `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"5"`
	PostgresConnMaxLifetime time.Duration `envconfig:"POSTGRES_CONN_MAX_LIFETIME" default:"30m"`

	JWTSecretKey string `envconfig:"JWT_SECRET_KEY"`

	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"peptide-tracker"`

	AnalyticsSource       string        `envconfig:"ANALYTICS_SOURCE" default:"postgres"`
	AnalyticsQueryTimeout time.Duration `envconfig:"ANALYTICS_QUERY_TIMEOUT" default:"10s"`
	SeedCatalogOnStart    bool          `envconfig:"SEED_CATALOG_ON_START" default:"false"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`

	OtelEnabled     bool    `envconfig:"OTEL_ENABLED" default:"false"`
	OtelServiceName string  `envconfig:"OTEL_SERVICE_NAME" default:"peptide-insights"`
	OtelEndpoint    string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     string  `envconfig:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool    `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`
	OtelSampleRatio float64 `envconfig:"OTEL_SAMPLE_RATIO" default:"1"`
	Environment     string  `envconfig:"ENVIRONMENT" default:"development"`
	Version         string  `envconfig:"VERSION"`

	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.AnalyticsSource = strings.ToLower(strings.TrimSpace(c.AnalyticsSource))
	switch c.AnalyticsSource {
	case "", AnalyticsSourcePostgres:
		c.AnalyticsSource = AnalyticsSourcePostgres
	case AnalyticsSourceMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("ANALYTICS_SOURCE=mongo requires MONGO_URI")
		}
	default:
		return fmt.Errorf("ANALYTICS_SOURCE must be %q or %q, got %q", AnalyticsSourcePostgres, AnalyticsSourceMongo, c.AnalyticsSource)
	}
	if c.AnalyticsQueryTimeout < 0 {
		return fmt.Errorf("ANALYTICS_QUERY_TIMEOUT must not be negative")
	}
	origins := make([]string, 0, len(c.CORSAllowedOrigins))
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSAllowedOrigins = origins
	return nil
}

func (c Config) Postgres() db.PostgresConfig {
	return db.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPassword,
		Name:            c.PostgresName,
		SSLMode:         c.PostgresSSLMode,
		MaxOpenConns:    c.PostgresMaxOpenConns,
		MaxIdleConns:    c.PostgresMaxIdleConns,
		ConnMaxLifetime: c.PostgresConnMaxLifetime,
	}
}

func (c Config) Otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.OtelServiceName,
		Environment: c.Environment,
		Version:     c.Version,
		Endpoint:    c.OtelEndpoint,
		Headers:     observability.ParseOTLPHeaders(c.OtelHeaders),
		Insecure:    c.OtelInsecure,
		SampleRatio: c.OtelSampleRatio,
	}
}
