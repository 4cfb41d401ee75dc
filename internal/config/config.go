package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Storage driver names selectable via STORAGE_DRIVER
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// PostgresCfg is postgres connection config
type PostgresCfg struct {
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Host        string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	Database    string `env:"POSTGRES_DB"`
	SslMode     string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"100"`
}

// MongoCfg is mongodb connection config
type MongoCfg struct {
	User        string `env:"MONGO_USER"`
	Password    string `env:"MONGO_PASSWORD"`
	Host        string `env:"MONGO_HOST" envDefault:"localhost"`
	Port        int    `env:"MONGO_PORT" envDefault:"27017"`
	Database    string `env:"MONGO_DB" envDefault:"customerhub"`
	MaxPoolSize int    `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
}

// MirrorCfg is secondary store config, empty Addr disables mirroring
type MirrorCfg struct {
	Addr     string `env:"MIRROR_REDIS_ADDR"`
	Password string `env:"MIRROR_REDIS_PASSWORD"`
	DB       int    `env:"MIRROR_REDIS_DB" envDefault:"0"`
}

// Enabled reports whether mirror credentials are provided
func (c MirrorCfg) Enabled() bool {
	return c.Addr != ""
}

// AuthCfg is session token config
type AuthCfg struct {
	SecretKey  string        `env:"SECRET_KEY"`
	Issuer     string        `env:"AUTH_TOKEN_ISSUER" envDefault:"customerhub-api"`
	TimeToLive time.Duration `env:"AUTH_TOKEN_TIME_TO_LIVE" envDefault:"15m"`
}

// AdminCfg is default admin bootstrap config, empty Email skips bootstrap
type AdminCfg struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
	Username string `env:"ADMIN_USERNAME" envDefault:"System Administrator"`
}

// Config is full application config
type Config struct {
	Port          int      `env:"PORT" envDefault:"8080"`
	StorageDriver string   `env:"STORAGE_DRIVER" envDefault:"postgres"`
	CorsOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	PostgresCfg   PostgresCfg
	MongoCfg      MongoCfg
	MirrorCfg     MirrorCfg
	AuthCfg       AuthCfg
	AdminCfg      AdminCfg
}

// Build parses environment into Config and verifies the parts
// required for the selected storage driver are present
func Build() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	if cfg.AuthCfg.SecretKey == "" {
		return cfg, fmt.Errorf("SECRET_KEY environment variable is required")
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.PostgresCfg.User == "" || cfg.PostgresCfg.Database == "" {
			return cfg, fmt.Errorf("POSTGRES_USER and POSTGRES_DB are required for %s storage driver", DriverPostgres)
		}
	case DriverMongo:
		if cfg.MongoCfg.User == "" {
			return cfg, fmt.Errorf("MONGO_USER is required for %s storage driver", DriverMongo)
		}
	default:
		return cfg, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.AdminCfg.Email != "" && cfg.AdminCfg.Password == "" {
		return cfg, fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	return cfg, nil
}
