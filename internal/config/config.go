// Package config loads the application configuration.
//
// Priority: environment variables > optional YAML file (CONFIG_PATH) >
// struct defaults. main additionally loads a .env file before this package
// runs, so local development needs nothing but a .env next to the binary.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Local  LocalConfig  `yaml:"local"`
	Remote RemoteConfig `yaml:"remote"`
	Auth   AuthConfig   `yaml:"auth"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// LocalConfig holds the local store (SQLite) settings.
type LocalConfig struct {
	DBPath string `yaml:"db_path" env:"DB_PATH" env-default:"data/devtrack.db"`
}

// RemoteConfig holds the remote document store (PostgreSQL) settings.
//
// DSN may be empty: the server then runs offline-only, serving everything
// from the local store — the same degraded mode it enters when the remote
// store is unreachable at runtime.
type RemoteConfig struct {
	DSN            string        `yaml:"dsn"             env:"DATABASE_DSN"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DATABASE_CONNECT_TIMEOUT" env-default:"5s"`
}

// AuthConfig holds session and Google OAuth settings.
//
// JWTSecret empty disables authentication (the server starts, OAuth routes
// are not registered). Generate one with: openssl rand -hex 32
type AuthConfig struct {
	JWTSecret          string `yaml:"jwt_secret"           env:"JWT_SECRET"`
	GoogleClientID     string `yaml:"google_client_id"     env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `yaml:"google_client_secret" env:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `yaml:"google_callback_url"  env:"GOOGLE_CALLBACK_URL"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"debug"`
}

// Load reads configuration from the YAML file named by CONFIG_PATH (if any)
// and the environment. A missing default config file is fine; a missing
// explicitly-named one is an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: reading env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Local.DBPath == "" {
		return errors.New("local db path must not be empty")
	}
	// Google OAuth needs all three settings or none.
	set := 0
	for _, v := range []string{c.Auth.GoogleClientID, c.Auth.GoogleClientSecret, c.Auth.GoogleCallbackURL} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return errors.New("google oauth requires client id, client secret, and callback url together")
	}
	return nil
}
