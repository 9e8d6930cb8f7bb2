package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the dispatch service.
type Config struct {
	AppEnv        string // "dev" or "prod"
	LogLevel      string // zerolog level name
	GatewayBuffer int    // event buffer size of the in-memory source
}

// Load loads configuration from environment variables, with an
// optional .env file for local development.
func Load() (*Config, error) {
	// 1. Load .env into the process environment. A missing file is
	// fine in prod; any other error is worth surfacing.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// 2. Bind viper keys to env var names.
	if err := viper.BindEnv("app.env", "APP_ENV"); err != nil {
		return nil, fmt.Errorf("could not bind app.env: %w", err)
	}
	if err := viper.BindEnv("log.level", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("could not bind log.level: %w", err)
	}
	if err := viper.BindEnv("gateway.buffer", "GATEWAY_BUFFER"); err != nil {
		return nil, fmt.Errorf("could not bind gateway.buffer: %w", err)
	}

	// 3. Defaults.
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("gateway.buffer", 64)

	cfg := Config{
		AppEnv:        viper.GetString("app.env"),
		LogLevel:      viper.GetString("log.level"),
		GatewayBuffer: viper.GetInt("gateway.buffer"),
	}

	// 4. Validation.
	if cfg.AppEnv != "dev" && cfg.AppEnv != "prod" {
		return nil, fmt.Errorf("APP_ENV must be \"dev\" or \"prod\", got %q", cfg.AppEnv)
	}
	if cfg.GatewayBuffer < 0 {
		return nil, fmt.Errorf("GATEWAY_BUFFER must not be negative, got %d", cfg.GatewayBuffer)
	}

	return &cfg, nil
}
