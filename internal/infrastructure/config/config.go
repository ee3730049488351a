// Package config loads process configuration from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=5000"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	APIPrefix string `env:"API_PREFIX, default=/api"`
	ClientURL string `env:"CLIENT_URL, default=http://localhost:8080"`

	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	Admin   AdminConfig
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	Issuer    string `env:"JWT_ISSUER,       default=accesshub"`
	// Revocation enables the Redis token denylist consulted at logout and by the Auth Gate.
	Revocation bool `env:"TOKEN_REVOCATION, default=false"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=accesshub"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// StorageConfig points at the S3-compatible bucket holding resource files.
// An empty endpoint disables presigned downloads.
type StorageConfig struct {
	Endpoint    string        `env:"MINIO_ENDPOINT"`
	AccessKey   string        `env:"MINIO_ACCESS_KEY"`
	SecretKey   string        `env:"MINIO_SECRET_KEY"`
	Bucket      string        `env:"MINIO_BUCKET,     default=resources"`
	UseSSL      bool          `env:"MINIO_USE_SSL,    default=false"`
	DownloadTTL time.Duration `env:"DOWNLOAD_URL_TTL, default=15m"`
}

// AdminConfig describes the optional admin account ensured at startup.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
	Name     string `env:"ADMIN_NAME, default=Admin User"`
}

// IsProduction reports whether the process runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// SeedAdmin reports whether an admin account should be ensured at startup.
func (c *Config) SeedAdmin() bool {
	return c.Admin.Email != "" && c.Admin.Password != ""
}

// StorageEnabled reports whether presigned downloads are configured.
func (c *Config) StorageEnabled() bool {
	return c.Storage.Endpoint != ""
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/', got %q", c.APIPrefix)
	}
	c.APIPrefix = strings.TrimSuffix(c.APIPrefix, "/")
	if c.StorageEnabled() && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}
	return nil
}
