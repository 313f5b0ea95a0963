package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variables read by Load.
const EnvPrefix = "MEDVERITAS"

// LegacyAPIKeyEnv is accepted as an alias for MEDVERITAS_LLM_GEMINI_API_KEY.
const LegacyAPIKeyEnv = "GEMINI_API_KEY"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithViper(viper.New())
}

// LoadWithViper loads configuration using the provided viper instance, which
// lets callers point at a specific config file.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The first env name wins when both are set.
	if err := v.BindEnv("llm.gemini_api_key", EnvPrefix+"_LLM_GEMINI_API_KEY", LegacyAPIKeyEnv); err != nil {
		return nil, fmt.Errorf("failed to bind API key environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.max_upload_bytes", 10<<20)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.request_timeout_seconds", 0)

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.record_name", "med_reminders")
	v.SetDefault("storage.file_dir", "./data")
	v.SetDefault("storage.sqlite_path", "")
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.mongo_uri", "")
	v.SetDefault("storage.mongo_database", "")

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 32)
	v.SetDefault("task.job_retention_minutes", 30)
}
