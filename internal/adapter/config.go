package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "SHELF"

// Config holds all application configuration
type Config struct {
	Data        DataConfig        `mapstructure:"data"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Bestsellers BestsellersConfig `mapstructure:"bestsellers"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Library     LibraryConfig     `mapstructure:"library"`
	Browser     BrowserConfig     `mapstructure:"browser"`
	UI          UIConfig          `mapstructure:"ui"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// DataConfig locates the persisted library
type DataConfig struct {
	Dir string `mapstructure:"dir"` // Empty = memory only
}

// CatalogConfig configures the book search provider
type CatalogConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	MaxResults        int     `mapstructure:"max_results"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // 0 = unlimited
}

// BestsellersConfig configures the curated list and reviews provider
type BestsellersConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	List    string `mapstructure:"list"` // e.g. "hardcover-fiction"
}

// HTTPConfig holds settings shared by all provider clients
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LibraryConfig holds library store behavior
type LibraryConfig struct {
	StrictLoad bool `mapstructure:"strict_load"` // Fail instead of discarding a malformed library
}

// BrowserConfig holds the preview link opener
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // Empty = system default
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	ShowBestsellers bool `mapstructure:"show_bestsellers"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: defaultDataPath(),
		},
		Catalog: CatalogConfig{
			BaseURL:    "https://www.googleapis.com/books/v1",
			MaxResults: 20,
		},
		Bestsellers: BestsellersConfig{
			BaseURL: "https://api.nytimes.com/svc/books/v3",
			List:    "hardcover-fiction",
		},
		HTTP: HTTPConfig{
			Timeout: 15 * time.Second,
		},
		Browser: BrowserConfig{
			Args: []string{},
		},
		UI: UIConfig{
			ShowBestsellers: true,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "shelf.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "shelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "shelf")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "shelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "shelf")
	}
}

// ConfigFilePath returns where SetConfigValue writes when no path is given
func ConfigFilePath() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment.
// A missing file is not an error; variables already set are kept.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}

// LoadConfig loads configuration from file and environment. An empty path
// searches the default config directory and the working directory; a
// missing file there is fine. An explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. SHELF_BESTSELLERS_API_KEY
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Data.Dir = ExpandPath(cfg.Data.Dir)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)
	return cfg, nil
}

// SetConfigValue sets one key in the file at path, leaving its other keys
// as written. Environment overrides and defaults are not merged in. A
// missing file is created holding just that key.
func SetConfigValue(path, key string, value any) error {
	if path == "" {
		path = ConfigFilePath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading config file: %w", err)
	}
	v.Set(key, value)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range flatten(cfg) {
		v.SetDefault(key, value)
	}
}

// flatten maps cfg to snake_case viper keys
func flatten(cfg *Config) map[string]any {
	return map[string]any{
		"data.dir":                    cfg.Data.Dir,
		"catalog.base_url":            cfg.Catalog.BaseURL,
		"catalog.max_results":         cfg.Catalog.MaxResults,
		"catalog.requests_per_second": cfg.Catalog.RequestsPerSecond,
		"bestsellers.base_url":        cfg.Bestsellers.BaseURL,
		"bestsellers.api_key":         cfg.Bestsellers.APIKey,
		"bestsellers.list":            cfg.Bestsellers.List,
		"http.timeout":                cfg.HTTP.Timeout.String(),
		"library.strict_load":         cfg.Library.StrictLoad,
		"browser.command":             cfg.Browser.Command,
		"browser.args":                cfg.Browser.Args,
		"ui.show_bestsellers":         cfg.UI.ShowBestsellers,
		"logging.file":                cfg.Logging.File,
		"logging.level":               cfg.Logging.Level,
	}
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
