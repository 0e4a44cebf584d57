package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full deployment configuration for the API server.
//
// Defaults keep local and CI behavior predictable; the only hard requirement
// is TOKEN_SECRET, since every bearer credential is signed with it.
type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	DatabaseURL    string `env:"DATABASE_URL"`

	TokenSecret string `env:"TOKEN_SECRET"`
	TokenIssuer string `env:"TOKEN_ISSUER" envDefault:"trippio-api"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	ShareTokenTTL   time.Duration `env:"SHARE_TOKEN_TTL" envDefault:"720h"`
	MagicLinkTTL    time.Duration `env:"MAGIC_LINK_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	// AppBaseURL is the public origin of the web client; magic links and share
	// URLs are built against it.
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:5173"`

	// ExposeMagicLink echoes the minted magic link in the request-link
	// response. Development/test convenience only.
	ExposeMagicLink bool `env:"EXPOSE_MAGIC_LINK" envDefault:"false"`

	// SecureCookies controls the Secure attribute on the refresh cookie.
	// Disable for plain-HTTP local development.
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"true"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenSecret == "" {
		return Config{}, fmt.Errorf("TOKEN_SECRET is required")
	}
	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}
	return cfg, nil
}
