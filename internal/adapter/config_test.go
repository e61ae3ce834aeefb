package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 20, cfg.Catalog.MaxResults)
	assert.Equal(t, "https://www.googleapis.com/books/v1", cfg.Catalog.BaseURL)
	assert.Equal(t, "https://api.nytimes.com/svc/books/v3", cfg.Bestsellers.BaseURL)
	assert.Equal(t, "hardcover-fiction", cfg.Bestsellers.List)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.False(t, cfg.Library.StrictLoad)
	assert.True(t, cfg.UI.ShowBestsellers)
	assert.Equal(t, "shelf.log", filepath.Base(cfg.Logging.File))
	assert.NotEmpty(t, cfg.Data.Dir)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
data:
  dir: /tmp/shelf-data
catalog:
  max_results: 10
  requests_per_second: 2.5
bestsellers:
  api_key: from-file
  list: young-adult
http:
  timeout: 3s
library:
  strict_load: true
browser:
  command: firefox
  args: ["--new-tab"]
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/shelf-data", cfg.Data.Dir)
	assert.Equal(t, 10, cfg.Catalog.MaxResults)
	assert.InDelta(t, 2.5, cfg.Catalog.RequestsPerSecond, 0.001)
	assert.Equal(t, "from-file", cfg.Bestsellers.APIKey)
	assert.Equal(t, "young-adult", cfg.Bestsellers.List)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	assert.True(t, cfg.Library.StrictLoad)
	assert.Equal(t, "firefox", cfg.Browser.Command)
	assert.Equal(t, []string{"--new-tab"}, cfg.Browser.Args)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched keys keep their defaults
	assert.Equal(t, "https://www.googleapis.com/books/v1", cfg.Catalog.BaseURL)
	assert.True(t, cfg.UI.ShowBestsellers)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "bestsellers:\n  api_key: from-file\n")

	t.Setenv("SHELF_BESTSELLERS_API_KEY", "from-env")
	t.Setenv("SHELF_CATALOG_MAX_RESULTS", "5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Bestsellers.APIKey)
	assert.Equal(t, 5, cfg.Catalog.MaxResults)
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "catalog: [unterminated\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSetConfigValue_KeepsFileContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "catalog:\n  max_results: 10\nbestsellers:\n  list: young-adult\n")
	t.Setenv("SHELF_CATALOG_MAX_RESULTS", "3")
	t.Setenv("SHELF_LOGGING_LEVEL", "debug")

	require.NoError(t, SetConfigValue(path, "bestsellers.api_key", "K"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "max_results: 10")
	assert.Contains(t, string(raw), "list: young-adult")
	assert.Contains(t, string(raw), "api_key: K")
	assert.NotContains(t, string(raw), "debug")
	assert.NotContains(t, string(raw), "show_bestsellers")
	assert.NotContains(t, string(raw), "logging")

	t.Setenv("SHELF_CATALOG_MAX_RESULTS", "")
	require.NoError(t, os.Unsetenv("SHELF_CATALOG_MAX_RESULTS"))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Catalog.MaxResults)
	assert.Equal(t, "young-adult", cfg.Bestsellers.List)
	assert.Equal(t, "K", cfg.Bestsellers.APIKey)
}

func TestSetConfigValue_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, SetConfigValue(path, "bestsellers.api_key", "K"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "api_key: K")
	assert.NotContains(t, string(raw), "catalog")
}

func TestSetConfigValue_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "catalog: [unterminated\n")

	assert.Error(t, SetConfigValue(path, "bestsellers.api_key", "K"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "SHELF_TEST_DOTENV_KEY=abc123\n")

	t.Setenv("SHELF_TEST_DOTENV_KEY", "")
	require.NoError(t, os.Unsetenv("SHELF_TEST_DOTENV_KEY"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "abc123", os.Getenv("SHELF_TEST_DOTENV_KEY"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "data"), ExpandPath("~/data"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
	assert.Empty(t, ExpandPath(""))
}
