// Package config provides configuration management for the VTN.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (standard names like DATABASE_URL, HTTP_PORT)
// 3. Default values
package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// OAuthType selects between the embedded token issuer and an external
// OAuth provider.
type OAuthType string

const (
	OAuthInternal OAuthType = "INTERNAL"
	OAuthExternal OAuthType = "EXTERNAL"
)

// KeyType is the token signature family the verifier accepts.
type KeyType string

const (
	KeyHMAC KeyType = "HMAC"
	KeyRSA  KeyType = "RSA"
	KeyEC   KeyType = "EC"
	KeyED   KeyType = "ED"
)

// Config is the root configuration structure.
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`

	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`

	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// OAuthConfig contains token verification and issuing settings.
type OAuthConfig struct {
	// Type: INTERNAL runs the embedded client-credentials issuer;
	// EXTERNAL trusts tokens minted by the provider at JWKSLocation.
	Type OAuthType `mapstructure:"type"`

	// KeyType: HMAC, RSA, EC, or ED.
	KeyType KeyType `mapstructure:"key_type"`

	// Base64Secret is the HMAC signing/verification secret, at least 256
	// bits. Auto-generated with a warning for INTERNAL when missing.
	Base64Secret string `mapstructure:"base64_secret"`

	// JWKSLocation is the key-set URL for non-HMAC key types.
	JWKSLocation string `mapstructure:"jwks_location"`

	// ValidAudiences is a comma-separated audience allow-list. Required for
	// EXTERNAL. When empty, internal tokens must not carry an aud claim.
	ValidAudiences string `mapstructure:"valid_audiences"`

	// TokenTTL is the lifetime of internally issued tokens.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// AuthConfig contains capability resolution settings.
type AuthConfig struct {
	// AnyBusinessScopes are granted to any_business tokens that carry no
	// explicit scopes. Comma-separated scope names.
	AnyBusinessScopes string `mapstructure:"any_business_scopes"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// WorkerConfig contains worker pool sizing. HashPoolSize 0 means bound by
// core count.
type WorkerConfig struct {
	GeneralPoolSize int `mapstructure:"general_pool_size"`
	HashPoolSize    int `mapstructure:"hash_pool_size"`
}

// Audiences returns the parsed audience allow-list.
func (c OAuthConfig) Audiences() []string {
	if strings.TrimSpace(c.ValidAudiences) == "" {
		return nil
	}
	parts := strings.Split(c.ValidAudiences, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Secret decodes the base64 HMAC secret.
func (c OAuthConfig) Secret() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(c.Base64Secret)
	if err != nil {
		return nil, fmt.Errorf("OAUTH_BASE64_SECRET contains invalid base64: %w", err)
	}
	return raw, nil
}

// ScopeNames returns the parsed implicit any_business scope list.
func (c AuthConfig) ScopeNames() []string {
	parts := strings.Split(c.AnyBusinessScopes, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var (
	bootstrapLoggerOnce sync.Once
	bootstrapLogger     *zap.Logger
)

// Load reads configuration from file and environment variables.
// Standard environment variables without prefix: DATABASE_URL, HTTP_PORT,
// OAUTH_TYPE, OAUTH_KEY_TYPE, OAUTH_BASE64_SECRET, OAUTH_JWKS_LOCATION,
// OAUTH_VALID_AUDIENCES, LOG_LEVEL.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/openleadr-vtn")

	// Maps nested config: oauth.base64_secret -> OAUTH_BASE64_SECRET
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.ensureSecrets(); err != nil {
		return nil, fmt.Errorf("ensure secrets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for startup misconfiguration. Any error here terminates
// the process with a non-zero exit code.
func (c *Config) Validate() error {
	switch c.OAuth.Type {
	case OAuthInternal, OAuthExternal:
	default:
		return fmt.Errorf("OAUTH_TYPE must be INTERNAL or EXTERNAL, got %q", c.OAuth.Type)
	}

	switch c.OAuth.KeyType {
	case KeyHMAC:
		if c.OAuth.Base64Secret == "" {
			return fmt.Errorf("OAUTH_BASE64_SECRET is required for key type HMAC")
		}
		secret, err := c.OAuth.Secret()
		if err != nil {
			return err
		}
		if len(secret) < 32 {
			return fmt.Errorf("OAUTH_BASE64_SECRET must have at least 32 bytes, got %d", len(secret))
		}
	case KeyRSA, KeyEC, KeyED:
		if c.OAuth.JWKSLocation == "" {
			return fmt.Errorf("OAUTH_JWKS_LOCATION is required for key type %s", c.OAuth.KeyType)
		}
	default:
		return fmt.Errorf("OAUTH_KEY_TYPE must be one of HMAC, RSA, EC, ED, got %q", c.OAuth.KeyType)
	}

	if c.OAuth.Type == OAuthExternal && len(c.OAuth.Audiences()) == 0 {
		return fmt.Errorf("OAUTH_VALID_AUDIENCES is required for external OAuth provider")
	}
	if c.OAuth.Type == OAuthInternal && c.OAuth.KeyType != KeyHMAC {
		return fmt.Errorf("internal OAuth provider requires key type HMAC, got %s", c.OAuth.KeyType)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	return nil
}

// ensureSecrets auto-generates the HMAC secret for the internal issuer when
// none is configured. External providers must configure keys explicitly.
func (c *Config) ensureSecrets() error {
	if c.OAuth.Type != OAuthInternal || c.OAuth.KeyType != KeyHMAC || c.OAuth.Base64Secret != "" {
		return nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("crypto/rand: %w", err)
	}
	c.OAuth.Base64Secret = base64.StdEncoding.EncodeToString(b)
	logBootstrapWarn(
		"auto-generated OAuth secret; tokens will not survive restarts, set OAUTH_BASE64_SECRET for persistence",
	)
	return nil
}

func logBootstrapWarn(msg string, fields ...zap.Field) {
	bootstrapLoggerOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

		l, err := cfg.Build()
		if err != nil {
			bootstrapLogger = zap.NewNop()
			return
		}
		bootstrapLogger = l
	})

	bootstrapLogger.Warn(msg, fields...)
}

func setDefaults(v *viper.Viper) {
	// HTTP
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.read_timeout", "30s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.request_timeout", "30s")
	v.SetDefault("http.shutdown_timeout", "30s")

	// Database
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 50)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "10m")
	v.SetDefault("database.auto_migrate", false)

	// OAuth
	v.SetDefault("oauth.type", string(OAuthInternal))
	v.SetDefault("oauth.key_type", string(KeyHMAC))
	v.SetDefault("oauth.token_ttl", "720h")

	// Capability resolution
	v.SetDefault("auth.any_business_scopes",
		"read_all,write_programs,write_events,write_reports,write_vens,write_users")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Worker pools; hash pool 0 means bound by core count.
	v.SetDefault("worker.general_pool_size", 100)
	v.SetDefault("worker.hash_pool_size", 0)
}
