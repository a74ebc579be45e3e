// Package config reads settings from the environment, after loading any
// config.env or .env file found in the working directory.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// APIConfig configures the note service.
type APIConfig struct {
	MongoURI string
	Database string
	Port     string
	LogLevel slog.Level
}

// AppConfig configures the note app (web UI, MCP endpoint, metrics).
type AppConfig struct {
	APIURL   string
	Port     string
	LogLevel slog.Level
}

// LoadEnvFiles loads the first env file that exists. Variables already set in
// the environment win. It reports which file was loaded, if any.
func LoadEnvFiles(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{"config.env", ".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

func LoadAPI() APIConfig {
	return APIConfig{
		MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGODB_DATABASE", "notes"),
		Port:     getEnv("API_PORT", "8080"),
		LogLevel: ParseLevel(getEnv("LOG_LEVEL", "info")),
	}
}

func LoadApp() AppConfig {
	return AppConfig{
		APIURL:   getEnv("NOTES_API_URL", "http://localhost:8080"),
		Port:     getEnv("APP_PORT", "7521"),
		LogLevel: ParseLevel(getEnv("LOG_LEVEL", "info")),
	}
}

// ParseLevel maps debug, info, warn and error to slog levels; anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
