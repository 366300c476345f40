// Package config provides configuration loading, validation, and management
// for the career advisor service. It reads an optional YAML file, a .env file,
// and environment variables, then validates the result.
package config

import "time"

// Config is the immutable application configuration. It is loaded once at
// startup and passed by value or pointer into every component constructor.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	History   HistoryConfig   `mapstructure:"history"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig holds HTTP listener and CORS settings.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"                validate:"required"`
	CORSOrigins       []string      `mapstructure:"cors_origins"        validate:"required,min=1"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" validate:"gte=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"    validate:"gt=0"`
}

// GeminiConfig holds the completion service credentials and call policy.
// MaxRetries and RequestTimeout default to zero: one attempt, no deadline of our own.
// A zero Temperature leaves the model default in place.
type GeminiConfig struct {
	APIKey         string        `mapstructure:"api_key"         validate:"required"`
	ModelName      string        `mapstructure:"model"           validate:"required"`
	BaseURL        string        `mapstructure:"base_url"        validate:"omitempty,url"`
	Temperature    float32       `mapstructure:"temperature"     validate:"gte=0,lte=2"`
	MaxRetries     int           `mapstructure:"max_retries"     validate:"gte=0,lte=10"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"     validate:"gte=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// HistoryConfig controls the optional SQLite request history.
type HistoryConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Path      string        `mapstructure:"path"      validate:"required_if=Enabled true"`
	Retention time.Duration `mapstructure:"retention" validate:"gte=0"`
	MaxList   int           `mapstructure:"max_list"  validate:"gt=0,lte=1000"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}
