package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm"     validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Task    TaskConfig    `mapstructure:"task"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
	MaxUploadBytes         int64  `mapstructure:"max_upload_bytes"         validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// GeminiAPIKey may be empty; AI dependent operations then fail with a
	// configuration error before any network attempt.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	// ModelName is the Gemini model identifier sent with every request.
	ModelName string `mapstructure:"model_name" validate:"required"`

	// RequestTimeoutSeconds bounds a single provider call. Zero means no
	// timeout beyond the caller's context.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gte=0"`
}

// HasCredential reports whether an API key is configured.
func (c LLMConfig) HasCredential() bool {
	return c.GeminiAPIKey != ""
}

// Storage backends for the persisted reminder record.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// StorageConfig selects and configures the record store backend.
type StorageConfig struct {
	Backend       string `mapstructure:"backend"        validate:"required,oneof=memory file sqlite postgres mongo"`
	RecordName    string `mapstructure:"record_name"    validate:"required"`
	FileDir       string `mapstructure:"file_dir"       validate:"required_if=Backend file"`
	SQLitePath    string `mapstructure:"sqlite_path"    validate:"required_if=Backend sqlite"`
	DatabaseURL   string `mapstructure:"database_url"   validate:"required_if=Backend postgres"`
	MongoURI      string `mapstructure:"mongo_uri"      validate:"required_if=Backend mongo"`
	MongoDatabase string `mapstructure:"mongo_database" validate:"required_if=Backend mongo"`
}

// TaskConfig contains settings for the background analysis job runner.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count"          validate:"gt=0"`
	QueueSize           int `mapstructure:"queue_size"            validate:"gt=0"`
	JobRetentionMinutes int `mapstructure:"job_retention_minutes" validate:"gt=0"`
}
