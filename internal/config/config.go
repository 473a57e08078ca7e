// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// Env is the application environment (e.g. "development", "production").
	// Controls logger output and cookie security flags.
	Env string `mapstructure:"APP_ENV"`

	// JWTSecret is the HS256 signing secret; required when APP_ENV=production.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTIssuer is the iss claim (e.g. "clinic-portal").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// ResetTokenTTL is the password reset token lifetime (e.g. "1h").
	ResetTokenTTL string `mapstructure:"RESET_TOKEN_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// TOTPIssuer is the issuer name shown in authenticator apps.
	TOTPIssuer string `mapstructure:"TOTP_ISSUER"`

	// SenderEmail is the From address for transactional email.
	SenderEmail string `mapstructure:"SENDER_EMAIL"`
	// SenderName is the From display name for transactional email.
	SenderName string `mapstructure:"SENDER_NAME"`
	// MailpitURL is the Mailpit API base URL (e.g. http://localhost:8025/api/v1).
	MailpitURL string `mapstructure:"MAILPIT_URL"`
	// PortalBaseURL is the public URL that links in email point at.
	PortalBaseURL string `mapstructure:"PORTAL_BASE_URL"`

	// KafkaBrokers is a comma-separated list of Kafka broker addresses. When set,
	// email is enqueued to Kafka and delivered by the worker; when empty, email
	// is sent synchronously.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EmailKafkaTopic is the Kafka topic for outbound email (default portal-email).
	EmailKafkaTopic string `mapstructure:"EMAIL_KAFKA_TOPIC"`
	// KafkaGroupID is the consumer group ID for the email worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "clinic-portal")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("RESET_TOKEN_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("TOTP_ISSUER", "Clinic Portal")
	v.SetDefault("SENDER_EMAIL", "noreply@clinic.example")
	v.SetDefault("SENDER_NAME", "Clinic Portal")
	v.SetDefault("MAILPIT_URL", "http://localhost:8025/api/v1")
	v.SetDefault("PORTAL_BASE_URL", "http://localhost:3000")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("EMAIL_KAFKA_TOPIC", "portal-email")
	v.SetDefault("KAFKA_GROUP_ID", "portal-email-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, errors.New("config: JWT_SECRET must be set when APP_ENV=production")
		}
		cfg.JWTSecret = "dev-only-secret"
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// ResetTTL parses ResetTokenTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) ResetTTL() time.Duration {
	d, err := time.ParseDuration(c.ResetTokenTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if async email is enabled (non-empty list) and to create the producer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
