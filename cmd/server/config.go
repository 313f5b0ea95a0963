package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/medveritas/medveritas-api/internal/config"
)

// loadAppConfig loads the application configuration from environment
// variables and the optional config file.
func loadAppConfig(configFile string) (*config.Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_backend", cfg.Storage.Backend)

	if !cfg.LLM.HasCredential() {
		slog.Warn("Gemini API key is not configured")
	}

	return cfg, nil
}
