package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/ariel/internal/domain/entities"
)

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault("ARIEL_HOST", "127.0.0.1"),
			Port:            getEnvIntOrDefault("ARIEL_PORT", 5000),
			ReadTimeout:     getEnvIntOrDefault("ARIEL_READ_TIMEOUT", 15),
			WriteTimeout:    getEnvIntOrDefault("ARIEL_WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvIntOrDefault("ARIEL_SHUTDOWN_TIMEOUT", 5),
			CORSOrigins:     getEnvSliceOrDefault("ARIEL_CORS_ORIGINS", nil),
		},
		Browser: entities.BrowserConfig{
			AutoOpen: getEnvBoolOrDefault("ARIEL_AUTO_OPEN", true),
			Browser:  getEnvOrDefault("ARIEL_BROWSER", "default"),
		},
		Watcher: entities.WatcherConfig{
			IntervalMs: getEnvIntOrDefault("ARIEL_WATCH_INTERVAL", 200),
			DebounceMs: getEnvIntOrDefault("ARIEL_WATCH_DEBOUNCE", 500),
		},
		Logging: entities.LoggingConfig{
			Level:      getEnvOrDefault("ARIEL_LOG_LEVEL", "info"),
			Verbose:    getEnvBoolOrDefault("ARIEL_LOG_VERBOSE", false),
			JSONFormat: getEnvBoolOrDefault("ARIEL_LOG_JSON", false),
		},
	}
}

// getEnvOrDefault returns an environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns an integer environment variable value or a default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns a boolean environment variable value or a default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns a comma-separated environment variable as a slice
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
