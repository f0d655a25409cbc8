package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"APP_PORT" envDefault:"8780"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"`

	// DATABASE_URL with a postgres:// scheme selects Postgres, anything else is a SQLite DSN
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:zonewatch?mode=memory&cache=shared"`
	BunDebug    bool   `env:"BUNDEBUG" envDefault:"false"`

	// JWT / keys. A throwaway RSA key is generated when the files do not exist.
	JWTPrivateKeyPath string `env:"JWT_PRIVATE_KEY_PATH" envDefault:"keys/jwt_private.pem"`
	JWTPublicKeyPath  string `env:"JWT_PUBLIC_KEY_PATH" envDefault:"keys/jwt_public.pem"`
	JWTIssuer         string `env:"JWT_ISSUER" envDefault:"zonewatch"`
	AccessTokenMin    int    `env:"ACCESS_TOKEN_MINUTES" envDefault:"15"`
	RefreshTokenDays  int    `env:"REFRESH_TOKEN_DAYS" envDefault:"10"`
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration

	// LDAP, disabled while LDAPServer is empty
	LDAPServer     string `env:"LDAP_SERVER"`
	LDAPBaseDN     string `env:"LDAP_BASE_DN"`
	LDAPUserDomain string `env:"LDAP_USER_DOMAIN"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// Simulation
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"30s"`
	SafeCount       int           `env:"SAFE_COUNT" envDefault:"85"`
	RestrictedCount int           `env:"RESTRICTED_COUNT" envDefault:"15"`
	CenterLat       float64       `env:"CENTER_LAT" envDefault:"40.7128"`
	CenterLng       float64       `env:"CENTER_LNG" envDefault:"-74.0060"`
	TripGroup       string        `env:"TRIP_GROUP" envDefault:"Europe Explorer Tour 2024"`
	ZonesFile       string        `env:"ZONES_FILE"`

	SeedDemoOfficer     bool   `env:"SEED_DEMO_OFFICER" envDefault:"true"`
	DemoOfficerEmail    string `env:"DEMO_OFFICER_EMAIL" envDefault:"officer@zonewatch.local"`
	DemoOfficerPassword string `env:"DEMO_OFFICER_PASSWORD" envDefault:"changeme"`

	TracingEnabled bool `env:"TRACING_ENABLED" envDefault:"false"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", cfg.RefreshInterval)
	}
	if cfg.SafeCount < 0 || cfg.RestrictedCount < 0 {
		return nil, fmt.Errorf("traveller counts must not be negative")
	}

	cfg.AccessTokenTTL = time.Duration(cfg.AccessTokenMin) * time.Minute      // default 15m
	cfg.RefreshTokenTTL = time.Duration(cfg.RefreshTokenDays) * 24 * time.Hour // default 10d
	return cfg, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
