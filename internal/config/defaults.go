package config

import "time"

// Default values for configuration
const (
	DefaultServerAddr              = ":8000"
	DefaultServerReadHeaderTimeout = 10 * time.Second
	DefaultServerShutdownTimeout   = 10 * time.Second

	DefaultGeminiModel = "gemini-1.5-flash"

	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultHistoryPath      = "history.db"
	DefaultHistoryRetention = 30 * 24 * time.Hour
	DefaultHistoryMaxList   = 100
)

// DefaultCORSOrigins allows the local static frontend. "null" is the origin
// browsers send for pages opened from file://.
var DefaultCORSOrigins = []string{
	"http://127.0.0.1:5500",
	"http://localhost:5500",
	"null",
}

// DefaultTasks are the scheduled tasks registered when history is enabled.
var DefaultTasks = map[string]TaskConfig{
	"history_prune":   {Enabled: true, Schedule: "0 30 3 * * *"},
	"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * 0"},
}
