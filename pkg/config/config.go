package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SURTIDO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv        = "SURTIDO_APP_ENV"
	EnvPort          = "SURTIDO_APP_PORT"
	EnvDBDSN         = "SURTIDO_DB_DSN"
	EnvDBHost        = "SURTIDO_DB_HOST"
	EnvDBUser        = "SURTIDO_DB_USER"
	EnvDBName        = "SURTIDO_DB_NAME"
	EnvRedisURL      = "SURTIDO_REDIS_URL"
	EnvWebhookSecret = "SURTIDO_WEBHOOK_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Webhook      WebhookConfig
	RateLimit    RateLimitConfig
	Scoring      ScoringConfig
	Relay        RelayConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SURTIDO_APP_ENV" required:"true"`
	Port         string `envconfig:"SURTIDO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SURTIDO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SURTIDO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SURTIDO_DB_DSN"`
	Driver string `envconfig:"SURTIDO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SURTIDO_DB_HOST"`
	LegacyPort     int    `envconfig:"SURTIDO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SURTIDO_DB_USER"`
	LegacyPassword string `envconfig:"SURTIDO_DB_PASSWORD"`
	LegacyName     string `envconfig:"SURTIDO_DB_NAME"`
	LegacySSLMode  string `envconfig:"SURTIDO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SURTIDO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SURTIDO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SURTIDO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SURTIDO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SURTIDO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SURTIDO_REDIS_ADDR"`
	Password     string        `envconfig:"SURTIDO_REDIS_PASSWORD"`
	DB           int           `envconfig:"SURTIDO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SURTIDO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SURTIDO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SURTIDO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SURTIDO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SURTIDO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// WebhookConfig carries the shared secret inbound webhook callers must present.
type WebhookConfig struct {
	Secret string `envconfig:"SURTIDO_WEBHOOK_SECRET" required:"true"`
}

type RateLimitConfig struct {
	QuoteWindow time.Duration `envconfig:"SURTIDO_RATE_LIMIT_QUOTE_WINDOW" default:"1m"`
	QuoteLimit  int           `envconfig:"SURTIDO_RATE_LIMIT_QUOTE_LIMIT" default:"30"`
}

// ScoringConfig holds the fallback weights applied when a business has not
// configured its own, plus the per-request scoring lock parameters.
type ScoringConfig struct {
	DefaultPriceWeight       float64       `envconfig:"SURTIDO_SCORING_PRICE_WEIGHT" default:"0.4"`
	DefaultDeliveryWeight    float64       `envconfig:"SURTIDO_SCORING_DELIVERY_WEIGHT" default:"0.3"`
	DefaultPriorityWeight    float64       `envconfig:"SURTIDO_SCORING_PRIORITY_WEIGHT" default:"0.2"`
	DefaultReliabilityWeight float64       `envconfig:"SURTIDO_SCORING_RELIABILITY_WEIGHT" default:"0.1"`
	LockTTL                  time.Duration `envconfig:"SURTIDO_SCORING_LOCK_TTL" default:"10s"`
	LockRetries              int           `envconfig:"SURTIDO_SCORING_LOCK_RETRIES" default:"3"`
}

type RelayConfig struct {
	BaseURL string        `envconfig:"SURTIDO_RELAY_BASE_URL"`
	Token   string        `envconfig:"SURTIDO_RELAY_TOKEN"`
	Timeout time.Duration `envconfig:"SURTIDO_RELAY_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SURTIDO_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"SURTIDO_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	EventsTopic string `envconfig:"SURTIDO_PUBSUB_EVENTS_TOPIC"`
}

// Enabled reports whether the optional event side channel is configured.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.EventsTopic) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
