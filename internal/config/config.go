package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr            string        `envconfig:"HTTP_ADDR" default:"0.0.0.0:8080"`
	APIPrefix           string        `envconfig:"API_PREFIX" default:"/api"`
	DatabaseURL         string        `envconfig:"DATABASE_URL"`
	Postgres            Postgres      `ignored:"true"`
	CountriesAPIURL     string        `envconfig:"COUNTRIES_API_URL" default:"https://restcountries.com/v3.1"`
	CountriesAPITimeout time.Duration `envconfig:"COUNTRIES_API_TIMEOUT" default:"10s"`
	CORSAllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout     time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// Postgres holds the discrete connection settings used when DATABASE_URL is
// not set.
type Postgres struct {
	Host     string `envconfig:"POSTGRES_HOST"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DB       string `envconfig:"POSTGRES_DB"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := envconfig.Process("", &cfg.Postgres); err != nil {
		return nil, fmt.Errorf("failed to read postgres environment: %w", err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.Postgres.ConnString()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database connection required (set DATABASE_URL or POSTGRES_HOST/POSTGRES_DB)")
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/': %q", c.APIPrefix)
	}
	if _, err := url.ParseRequestURI(c.CountriesAPIURL); err != nil {
		return fmt.Errorf("invalid COUNTRIES_API_URL: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ConnString is empty unless both host and database name are known.
func (p Postgres) ConnString() string {
	if p.Host == "" || p.DB == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + p.Port,
		Path:     "/" + p.DB,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
