package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"TRADEPOST_APP_ENV" required:"true"`
	Port         string `envconfig:"TRADEPOST_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"TRADEPOST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRADEPOST_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"TRADEPOST_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRADEPOST_DB_DSN"`
	Driver string `envconfig:"TRADEPOST_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRADEPOST_DB_HOST"`
	LegacyPort     int    `envconfig:"TRADEPOST_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRADEPOST_DB_USER"`
	LegacyPassword string `envconfig:"TRADEPOST_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRADEPOST_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRADEPOST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRADEPOST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRADEPOST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRADEPOST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRADEPOST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a postgres DSN from the legacy host/user fields when an
// explicit DSN is not provided. SQLite deployments keep DSN as a file path.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if strings.EqualFold(d.Driver, "sqlite") {
		d.DSN = "tradepost.db"
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or host/user/name required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TRADEPOST_REDIS_URL"`
	Address      string        `envconfig:"TRADEPOST_REDIS_ADDR"`
	Password     string        `envconfig:"TRADEPOST_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRADEPOST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRADEPOST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRADEPOST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRADEPOST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRADEPOST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRADEPOST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The API
// degrades gracefully (no idempotency replay) when redis is absent.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TRADEPOST_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TRADEPOST_AUTO_MIGRATE" default:"false"`
}
