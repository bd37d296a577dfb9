package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Addr string `validate:"required"`
	Env  string `validate:"oneof=development production test"`
}

type DatabaseConfig struct {
	DSN string `validate:"required"`
}

type SessionConfig struct {
	Name string `validate:"required"`
	// Key signs the flash cookie. When empty a random key is generated at
	// startup and flashes do not survive a restart.
	Key string `validate:"omitempty,min=32"`
}

type LoggingConfig struct {
	Level string `validate:"oneof=debug info warn error fatal"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the configuration from the environment, after loading a .env
// file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnv("REVEAL_ADDR", ":8080"),
			Env:  getEnv("REVEAL_ENV", "development"),
		},
		Database: DatabaseConfig{
			DSN: getEnv("REVEAL_DSN", "reveal.db"),
		},
		Session: SessionConfig{
			Name: getEnv("REVEAL_SESSION_NAME", "reveal-session"),
			Key:  getEnv("REVEAL_SESSION_KEY", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg, for example after command-line overrides.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
