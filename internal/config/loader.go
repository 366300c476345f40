package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override except the Gemini credentials,
// which keep their conventional names.
const EnvPrefix = "CAREER"

// ErrConfiguration is wrapped by every error returned from Load.
var ErrConfiguration = errors.New("configuration error")

// Load builds the configuration from, in increasing precedence:
//  1. Default values
//  2. The YAML file at path (optional; a missing file is not an error)
//  3. A .env file in the working directory (optional)
//  4. Environment variables: GEMINI_API_KEY, GEMINI_MODEL and CAREER_* for the rest
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := v.BindEnv("gemini.model", "GEMINI_MODEL"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, path, err)
			}
			slog.Debug("Configuration file loaded", "path", path)
		} else if errors.Is(err, os.ErrNotExist) {
			slog.Debug("Configuration file not found, using defaults and environment", "path", path)
		} else {
			return nil, fmt.Errorf("%w: failed to stat config file %s: %v", ErrConfiguration, path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// Validate checks the struct tags of the whole configuration tree.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.cors_origins", DefaultCORSOrigins)
	v.SetDefault("server.read_header_timeout", DefaultServerReadHeaderTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)

	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.temperature", 0)
	v.SetDefault("gemini.max_retries", 0)
	v.SetDefault("gemini.retry_delay", 0)
	v.SetDefault("gemini.request_timeout", 0)

	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", DefaultHistoryPath)
	v.SetDefault("history.retention", DefaultHistoryRetention)
	v.SetDefault("history.max_list", DefaultHistoryMaxList)

	tasks := make(map[string]any, len(DefaultTasks))
	for name, task := range DefaultTasks {
		tasks[name] = map[string]any{
			"enabled":  task.Enabled,
			"schedule": task.Schedule,
		}
	}
	v.SetDefault("scheduler.tasks", tasks)
}
