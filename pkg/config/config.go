package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Offers       OffersConfig
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
	if err := cfg.Offers.validate(); err != nil {
		return nil, err
	}
	if err := cfg.validateAudit(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"LENSFINDERZ_APP_ENV" required:"true"`
	Port         string   `envconfig:"LENSFINDERZ_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"LENSFINDERZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"LENSFINDERZ_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"LENSFINDERZ_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LENSFINDERZ_DB_DSN"`
	Driver string `envconfig:"LENSFINDERZ_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LENSFINDERZ_DB_HOST"`
	LegacyPort     int    `envconfig:"LENSFINDERZ_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LENSFINDERZ_DB_USER"`
	LegacyPassword string `envconfig:"LENSFINDERZ_DB_PASSWORD"`
	LegacyName     string `envconfig:"LENSFINDERZ_DB_NAME"`
	LegacySSLMode  string `envconfig:"LENSFINDERZ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LENSFINDERZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LENSFINDERZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LENSFINDERZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LENSFINDERZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LENSFINDERZ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LENSFINDERZ_REDIS_ADDR"`
	Password     string        `envconfig:"LENSFINDERZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"LENSFINDERZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LENSFINDERZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LENSFINDERZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LENSFINDERZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LENSFINDERZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LENSFINDERZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// OffersConfig tunes the pricing engine's catalog access.
type OffersConfig struct {
	CatalogFetchTimeout time.Duration `envconfig:"LENSFINDERZ_OFFERS_CATALOG_FETCH_TIMEOUT" default:"2s"`
	CatalogCacheTTL     time.Duration `envconfig:"LENSFINDERZ_OFFERS_CATALOG_CACHE_TTL" default:"30s"`
	RateLimitWindow     time.Duration `envconfig:"LENSFINDERZ_OFFERS_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitPerOrg     int           `envconfig:"LENSFINDERZ_OFFERS_RATE_LIMIT_PER_ORG" default:"600"`
	RateLimitPerIP      int           `envconfig:"LENSFINDERZ_OFFERS_RATE_LIMIT_PER_IP" default:"120"`
}

func (o OffersConfig) validate() error {
	if o.CatalogFetchTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvOffersCatalogFetchTimeout)
	}
	if o.CatalogCacheTTL < 0 {
		return fmt.Errorf("%s must not be negative", EnvOffersCatalogCacheTTL)
	}
	if o.RateLimitPerOrg < 0 || o.RateLimitPerIP < 0 {
		return fmt.Errorf("offer rate limits must not be negative")
	}
	return nil
}

// validateAudit requires a project and topic once audit events are switched on.
func (c Config) validateAudit() error {
	if !c.FeatureFlags.AuditEvents {
		return nil
	}
	if strings.TrimSpace(c.GCP.ProjectID) == "" {
		return fmt.Errorf("%s is required when audit events are enabled", EnvGCPProjectID)
	}
	if strings.TrimSpace(c.PubSub.OfferAuditTopic) == "" {
		return fmt.Errorf("%s must not be empty when audit events are enabled", EnvPubSubOfferAuditTopic)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"LENSFINDERZ_AUTO_MIGRATE" default:"false"`
	CatalogCache bool `envconfig:"LENSFINDERZ_FEATURE_CATALOG_CACHE" default:"true"`
	AuditEvents  bool `envconfig:"LENSFINDERZ_FEATURE_AUDIT_EVENTS" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"LENSFINDERZ_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"LENSFINDERZ_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	OfferAuditTopic string        `envconfig:"LENSFINDERZ_PUBSUB_OFFER_AUDIT_TOPIC" default:"lf-offer-calculations"`
	PublishDelay    time.Duration `envconfig:"LENSFINDERZ_PUBSUB_PUBLISH_DELAY" default:"50ms"`
	PublishBatch    int           `envconfig:"LENSFINDERZ_PUBSUB_PUBLISH_BATCH" default:"100"`
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
