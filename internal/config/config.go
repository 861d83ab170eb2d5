// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// DefaultWhatsAppFrom is the Twilio WhatsApp sandbox sender.
const DefaultWhatsAppFrom = "whatsapp:+14155238886"

// Config holds the application configuration loaded from environment variables.
// It is loaded once in main and passed explicitly to the components that need it.
type Config struct {
	DBPath        string `env:"DOCPROPEL_DB_PATH" envDefault:"./data/docpropel.db"`
	SessionSecret string `env:"DOCPROPEL_SESSION_SECRET,required"`
	TokenSecret   string `env:"DOCPROPEL_TOKEN_SECRET"` // Falls back to SessionSecret
	ServerHost    string `env:"DOCPROPEL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"DOCPROPEL_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"DOCPROPEL_ENV" envDefault:"development"`
	LogLevel      string `env:"DOCPROPEL_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL    string `env:"DOCPROPEL_REDIS_URL"`                            // Optional Redis URL for shared caching
	CachePrefix string `env:"DOCPROPEL_CACHE_PREFIX" envDefault:"docpropel:"` // Redis key prefix
	CacheTTL    int    `env:"DOCPROPEL_CACHE_TTL" envDefault:"300"`           // Site content TTL in seconds

	// GeoIP configuration
	GeoIPDBPath string `env:"DOCPROPEL_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Seeding and retention
	DoSeed             bool `env:"DOCPROPEL_DO_SEED" envDefault:"true"`
	EventRetentionDays int  `env:"DOCPROPEL_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Admin dashboard credentials
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"` // Plain text or $argon2id$ hash

	// External identity provider
	OwnerOpenID       string `env:"OWNER_OPEN_ID"`
	OAuthServerURL    string `env:"OAUTH_SERVER_URL"`
	OAuthClientID     string `env:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string `env:"OAUTH_CLIENT_SECRET"`

	// Notification providers
	SendGridAPIKey    string `env:"SENDGRID_API_KEY"`
	SendGridFromEmail string `env:"SENDGRID_FROM_EMAIL" envDefault:"notifications@docpropel.com"`
	SendGridFromName  string `env:"SENDGRID_FROM_NAME" envDefault:"DocPropel"`
	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `env:"TWILIO_PHONE_NUMBER"`
	TwilioWhatsApp    string `env:"TWILIO_WHATSAPP_NUMBER" envDefault:"whatsapp:+14155238886"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// DatabaseEnabled reports whether a database path is configured.
// With an empty path the site still serves pages but persists nothing.
func (c Config) DatabaseEnabled() bool {
	return c.DBPath != ""
}

// OAuthEnabled returns true if the external identity provider is configured.
func (c Config) OAuthEnabled() bool {
	return c.OAuthServerURL != "" && c.OAuthClientID != ""
}

// SigningSecret returns the key used to sign admin tokens.
func (c Config) SigningSecret() string {
	if c.TokenSecret != "" {
		return c.TokenSecret
	}
	return c.SessionSecret
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("DOCPROPEL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, errors.New("DOCPROPEL_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.TokenSecret != "" && len(cfg.TokenSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("DOCPROPEL_TOKEN_SECRET must be at least %d bytes long, got %d bytes",
			MinSessionSecretLength, len(cfg.TokenSecret))
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("DOCPROPEL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD is not set; admin dashboard login is disabled")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
