// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"PORTAL_DB_PATH" envDefault:"./data/portal.db"`
	SessionSecret string `env:"PORTAL_SESSION_SECRET,required"`
	JWTSecret     string `env:"PORTAL_JWT_SECRET,required"`
	ServerHost    string `env:"PORTAL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"PORTAL_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"PORTAL_ENV" envDefault:"development"`
	LogLevel      string `env:"PORTAL_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"PORTAL_UPLOADS_DIR" envDefault:"./uploads"`

	// Storage configuration. Documents managed locally and documents coming
	// from the external SGD system live under different storage bases; the
	// year threshold decides provenance (see storage.Resolver).
	StorageBaseURL    string `env:"PORTAL_STORAGE_BASE_URL" envDefault:"http://localhost:9000/archivos"`
	SGDStorageBaseURL string `env:"PORTAL_SGD_STORAGE_BASE_URL"`
	SGDYearThreshold  int    `env:"PORTAL_SGD_YEAR_THRESHOLD" envDefault:"2025"`

	// Cache configuration
	RedisURL     string `env:"PORTAL_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix  string `env:"PORTAL_CACHE_PREFIX" envDefault:"portal:"`
	CacheTTL     int    `env:"PORTAL_CACHE_TTL" envDefault:"300"`      // Default cache TTL in seconds
	CacheMaxSize int    `env:"PORTAL_CACHE_MAX_SIZE" envDefault:"1000"`

	// SMTP configuration for agenda notifications and invitation emails
	SMTPHost string `env:"PORTAL_SMTP_HOST"`
	SMTPPort int    `env:"PORTAL_SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"PORTAL_SMTP_USER"`
	SMTPPass string `env:"PORTAL_SMTP_PASS"`
	SMTPFrom string `env:"PORTAL_SMTP_FROM" envDefault:"no-reply@consejoregional.gob.pe"`

	// GeoIP configuration
	GeoIPDBPath string `env:"PORTAL_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// TrustedOrigins lists origins allowed to make state-changing requests,
	// e.g. the SPA dev server.
	TrustedOrigins []string `env:"PORTAL_TRUSTED_ORIGINS" envSeparator:","`

	// Seeding configuration
	DoSeed bool `env:"PORTAL_DO_SEED" envDefault:"false"`
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

// SMTPEnabled returns true if an SMTP relay is configured.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// GeoIPEnabled returns true if the GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSecretLength is the minimum required length for session and JWT secrets.
const MinSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSecretLength {
		return nil, fmt.Errorf("PORTAL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSecretLength, len(cfg.SessionSecret))
	}
	if len(cfg.JWTSecret) < MinSecretLength {
		return nil, fmt.Errorf("PORTAL_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSecretLength, len(cfg.JWTSecret))
	}

	if cfg.SGDStorageBaseURL == "" {
		cfg.SGDStorageBaseURL = cfg.StorageBaseURL
	}
	if cfg.SGDYearThreshold <= 0 {
		return nil, fmt.Errorf("PORTAL_SGD_YEAR_THRESHOLD must be positive, got %d", cfg.SGDYearThreshold)
	}

	return cfg, nil
}
