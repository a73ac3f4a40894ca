// Package config reads process configuration from SPRINTBOARD_* environment
// variables, after loading an optional .env file from the working
// directory.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/remote"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const envPrefix = "SPRINTBOARD_"

type Config struct {
	APIURL      string        `env:"API_URL" envDefault:"http://localhost:8765"`
	Token       string        `env:"TOKEN"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	LogCalls    bool          `env:"LOG_CALLS" envDefault:"false"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"warn"`

	// DBPath selects the SQLite backend instead of the services.
	DBPath    string `env:"DB"`
	UserID    string `env:"USER_ID" envDefault:"local-user"`
	UserEmail string `env:"USER_EMAIL"`
	UserName  string `env:"USER_NAME" envDefault:"Local User"`
}

// Load reads .env (if present) and the process environment. Variables
// already set in the environment win over .env.
func Load() (Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{Prefix: envPrefix})
}

// FromMap parses cfg from an explicit set of unprefixed variables.
func FromMap(vars map[string]string) (Config, error) {
	environ := make(map[string]string, len(vars))
	for k, v := range vars {
		environ[envPrefix+k] = v
	}
	return parse(env.Options{Prefix: envPrefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%sHTTP_TIMEOUT must be positive, got %s", envPrefix, c.HTTPTimeout)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Local() && strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%sUSER_ID is required with %sDB", envPrefix, envPrefix)
	}
	return nil
}

// Local reports whether the SQLite backend is selected.
func (c Config) Local() bool {
	return c.DBPath != ""
}

func (c Config) Remote() remote.Config {
	return remote.Config{
		BaseURL:  c.APIURL,
		Timeout:  c.HTTPTimeout,
		LogCalls: c.LogCalls,
	}
}

// LocalUser is the identity the SQLite backend serves requests as.
func (c Config) LocalUser() domain.User {
	return domain.User{
		ID:          c.UserID,
		Email:       c.UserEmail,
		DisplayName: c.UserName,
	}
}

func (c Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, fmt.Errorf("%sLOG_LEVEL: %w", envPrefix, err)
	}
	return l, nil
}
