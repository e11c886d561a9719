// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config loads application settings from defaults, an optional YAML
// file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Notification backends.
const (
	NotifyValkey = "valkey"
	NotifyLocal  = "local"
)

// DefaultDBPassword is refused in production.
const DefaultDBPassword = "changeme"

// Config holds all application configuration values. Keys match the
// environment variable names in lower case, so POSTGRES_HOST can also be
// written as postgres_host in the config file.
type Config struct {
	// Server settings
	Host string `mapstructure:"app_host"`
	Port string `mapstructure:"app_port"`
	Env  string `mapstructure:"app_env"` // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string `mapstructure:"postgres_host"`
	DBPort     string `mapstructure:"postgres_port"`
	DBUser     string `mapstructure:"postgres_user"`
	DBPassword string `mapstructure:"postgres_password"`
	DBName     string `mapstructure:"postgres_db"`

	// Valkey (sessions, page cache, change fan-out)
	ValkeyHost     string `mapstructure:"valkey_host"`
	ValkeyPort     string `mapstructure:"valkey_port"`
	ValkeyPassword string `mapstructure:"valkey_password"`

	// S3-compatible object storage. Uploads are disabled when unset.
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3Region    string `mapstructure:"s3_region"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3PublicURL string `mapstructure:"s3_public_url"`

	FormRelayURL     string        `mapstructure:"form_relay_url"`
	FormRelayTimeout time.Duration `mapstructure:"form_relay_timeout"`

	SiteURL         string `mapstructure:"site_url"`
	SiteContentPath string `mapstructure:"site_content_path"` // empty uses the built-in copy

	Require2FA    bool   `mapstructure:"admin_require_2fa"`
	CORSOrigins   string `mapstructure:"cors_origins"` // comma separated
	NotifyBackend string `mapstructure:"notify_backend"`
}

var defaults = map[string]any{
	"app_host": "0.0.0.0",
	"app_port": "8080",
	"app_env":  "development",

	"postgres_host":     "localhost",
	"postgres_port":     "5432",
	"postgres_user":     "scalers",
	"postgres_password": DefaultDBPassword,
	"postgres_db":       "scalers",

	"valkey_host":     "localhost",
	"valkey_port":     "6379",
	"valkey_password": "",

	"s3_endpoint":   "",
	"s3_region":     "us-east-1",
	"s3_access_key": "",
	"s3_secret_key": "",
	"s3_bucket":     "scalers-media",
	"s3_public_url": "",

	"form_relay_url":     "https://formspree.io/f/xkovpjlj",
	"form_relay_timeout": 10 * time.Second,

	"site_url":          "http://localhost:8080",
	"site_content_path": "",

	"admin_require_2fa": false,
	"cors_origins":      "*",
	"notify_backend":    NotifyValkey,
}

// Load reads configuration. When path is empty a scalers.yaml in the
// working directory is used if present. Returns an error if critical values
// are missing in production mode.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("scalers")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.NotifyBackend {
	case NotifyValkey, NotifyLocal:
	default:
		errs = append(errs, fmt.Errorf("NOTIFY_BACKEND must be %q or %q, got %q", NotifyValkey, NotifyLocal, c.NotifyBackend))
	}
	if c.Env == "production" {
		if c.DBPassword == DefaultDBPassword {
			errs = append(errs, errors.New("POSTGRES_PASSWORD must be set in production"))
		}
		if c.FormRelayURL == "" {
			errs = append(errs, errors.New("FORM_RELAY_URL must be set in production"))
		}
	}
	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, net.JoinHostPort(c.DBHost, c.DBPort), c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.SiteURL, "https://")
}

// Origins splits CORS_ORIGINS into a list, dropping blanks.
func (c *Config) Origins() []string {
	var out []string
	for o := range strings.SplitSeq(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
