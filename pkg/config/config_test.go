package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DevelopmentDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "./tmp/data.sqlite", cfg.DatabaseFilePath)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, "https://www.googleapis.com/books/v1", cfg.GoogleBooksBaseURL)
	assert.True(t, cfg.DatabaseDebug)
}

func TestNew_TestDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DatabaseFilePath)
	assert.Equal(t, 0, cfg.ServerPort)
}

func TestNew_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/books.sqlite
server_port: 8080
google_books_base_url: http://localhost:9999/books/v1
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/books.sqlite", cfg.DatabaseFilePath)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "http://localhost:9999/books/v1", cfg.GoogleBooksBaseURL)
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("server_port: 8080\n"), 0644)
	require.NoError(t, err)

	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("SHELFMARK_SERVER_PORT", "9090")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
}

func TestNew_MissingConfigFileIgnored(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "./tmp/data.sqlite", cfg.DatabaseFilePath)
}
