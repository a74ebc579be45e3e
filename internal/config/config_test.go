package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppDefaults(t *testing.T) {
	t.Setenv("NOTES_API_URL", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := LoadApp()
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, "7521", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadAPIFromEnv(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("MONGODB_DATABASE", "labels")
	t.Setenv("API_PORT", "9000")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := LoadAPI()
	assert.Equal(t, APIConfig{
		MongoURI: "mongodb://db:27017",
		Database: "labels",
		Port:     "9000",
		LogLevel: slog.LevelDebug,
	}, cfg)
}

func TestPortsAreSeparate(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("APP_PORT", "9001")
	t.Setenv("PORT", "1234")

	assert.Equal(t, "9000", LoadAPI().Port)
	assert.Equal(t, "9001", LoadApp().Port)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.env")
	require.NoError(t, os.WriteFile(path, []byte("NOTES_TEST_FROM_FILE=yes\nNOTES_TEST_PRESET=file\n"), 0o600))

	t.Setenv("NOTES_TEST_PRESET", "env")
	t.Cleanup(func() { os.Unsetenv("NOTES_TEST_FROM_FILE") })

	loaded := LoadEnvFiles(filepath.Join(dir, "missing.env"), path)
	assert.Equal(t, path, loaded)
	assert.Equal(t, "yes", os.Getenv("NOTES_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("NOTES_TEST_PRESET"))
}

func TestLoadEnvFilesNoneFound(t *testing.T) {
	assert.Equal(t, "", LoadEnvFiles(filepath.Join(t.TempDir(), "nope.env")))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
