// Package config loads application configuration from environment variables
// (optionally seeded from a .env file) via viper.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Billing  BillingConfig  `mapstructure:"billing"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// OAuthConfig configures the client-credentials exchange against the external
// billing system's token endpoint.
type OAuthConfig struct {
	TokenURL     string        `mapstructure:"token_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Scope        string        `mapstructure:"scope"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// StrictAuth disables the ephemeral fallback token: when set, a failed
	// token exchange is surfaced to callers instead of being absorbed.
	StrictAuth  bool          `mapstructure:"strict_auth"`
	FallbackTTL time.Duration `mapstructure:"fallback_ttl"`
}

type BillingConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	BulkTimeout time.Duration `mapstructure:"bulk_timeout"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BILLFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("oauth.token_url", "")
	v.SetDefault("oauth.client_id", "")
	v.SetDefault("oauth.client_secret", "")
	v.SetDefault("oauth.scope", "tiers:write")
	v.SetDefault("oauth.timeout", 5*time.Second)
	v.SetDefault("oauth.strict_auth", false)
	v.SetDefault("oauth.fallback_ttl", time.Hour)
	v.SetDefault("billing.base_url", "")
	v.SetDefault("billing.timeout", 30*time.Second)
	v.SetDefault("billing.bulk_timeout", 2*time.Minute)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
