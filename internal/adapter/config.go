package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Unsplash  UnsplashConfig  `mapstructure:"unsplash"`
	Downloads DownloadsConfig `mapstructure:"downloads"`
	Cache     CacheConfig     `mapstructure:"cache"`
	UI        UIConfig        `mapstructure:"ui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// UnsplashConfig holds search API configuration
type UnsplashConfig struct {
	AccessKey         string  `mapstructure:"access_key"`
	BaseURL           string  `mapstructure:"base_url"`
	PerPage           int     `mapstructure:"per_page"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // 0 disables client-side limiting
}

// DownloadsConfig holds download destination configuration
type DownloadsConfig struct {
	Dir     string `mapstructure:"dir"`     // empty = platform downloads/documents dir
	Confirm bool   `mapstructure:"confirm"` // ask before each download
}

// CacheConfig holds page cache configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	GridColumns int    `mapstructure:"grid_columns"`
	OpenCommand string `mapstructure:"open_command"` // empty = system default handler

	// ShowFetchErrors keeps failed fetches distinguishable from the end of
	// results. When false a failed page simply ends the list.
	ShowFetchErrors bool `mapstructure:"show_fetch_errors"`
	ImagePreview    bool `mapstructure:"image_preview"` // render thumbnails in the preview modal
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Unsplash: UnsplashConfig{
			BaseURL:           "https://api.unsplash.com",
			PerPage:           20,
			RequestsPerSecond: 2,
		},
		Downloads: DownloadsConfig{
			Confirm: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCachePath(),
			TTL:     time.Hour,
		},
		UI: UIConfig{
			Theme:           "default",
			GridColumns:     1,
			ShowFetchErrors: true,
			ImagePreview:    true,
		},
		Logging: LoggingConfig{
			File:       defaultLogPath(),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "pixgrid", "pixgrid.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "pixgrid", "pixgrid.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "pixgrid")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "pixgrid")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "pixgrid", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "pixgrid", "cache")
	}
}

// newViper builds a viper instance bound to the config search paths and env
func newViper(dirs ...string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	// PIXGRID_UNSPLASH_ACCESS_KEY -> unsplash.access_key
	v.SetEnvPrefix("PIXGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults must be registered for AutomaticEnv to see nested keys
	def := DefaultConfig()
	v.SetDefault("unsplash.access_key", def.Unsplash.AccessKey)
	v.SetDefault("unsplash.base_url", def.Unsplash.BaseURL)
	v.SetDefault("unsplash.per_page", def.Unsplash.PerPage)
	v.SetDefault("unsplash.requests_per_second", def.Unsplash.RequestsPerSecond)
	v.SetDefault("downloads.dir", def.Downloads.Dir)
	v.SetDefault("downloads.confirm", def.Downloads.Confirm)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.dir", def.Cache.Dir)
	v.SetDefault("cache.ttl", def.Cache.TTL)
	v.SetDefault("ui.theme", def.UI.Theme)
	v.SetDefault("ui.grid_columns", def.UI.GridColumns)
	v.SetDefault("ui.open_command", def.UI.OpenCommand)
	v.SetDefault("ui.show_fetch_errors", def.UI.ShowFetchErrors)
	v.SetDefault("ui.image_preview", def.UI.ImagePreview)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.max_size_mb", def.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", def.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", def.Logging.MaxAgeDays)
	return v
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(defaultConfigPath(), ".")
}

// LoadConfigFrom loads configuration searching only the given directories
func LoadConfigFrom(dirs ...string) (*Config, error) {
	v := newViper(dirs...)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Unsplash.PerPage <= 0 {
		cfg.Unsplash.PerPage = 20
	}
	if cfg.UI.GridColumns <= 0 {
		cfg.UI.GridColumns = 1
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to the default config dir
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(cfg, defaultConfigPath())
}

// SaveConfigTo writes config.yaml into configPath
func SaveConfigTo(cfg *Config, configPath string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("unsplash.access_key", cfg.Unsplash.AccessKey)
	v.Set("unsplash.base_url", cfg.Unsplash.BaseURL)
	v.Set("unsplash.per_page", cfg.Unsplash.PerPage)
	v.Set("unsplash.requests_per_second", cfg.Unsplash.RequestsPerSecond)

	v.Set("downloads.dir", cfg.Downloads.Dir)
	v.Set("downloads.confirm", cfg.Downloads.Confirm)

	v.Set("cache.enabled", cfg.Cache.Enabled)
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.ttl", cfg.Cache.TTL.String())

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.grid_columns", cfg.UI.GridColumns)
	v.Set("ui.open_command", cfg.UI.OpenCommand)
	v.Set("ui.show_fetch_errors", cfg.UI.ShowFetchErrors)
	v.Set("ui.image_preview", cfg.UI.ImagePreview)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.Set("logging.max_backups", cfg.Logging.MaxBackups)
	v.Set("logging.max_age_days", cfg.Logging.MaxAgeDays)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if an access key is set
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.Unsplash.AccessKey) != ""
}

// CacheDir returns the page cache directory, or "" for memory-only mode
func (c *Config) CacheDir() string {
	if !c.Cache.Enabled {
		return ""
	}
	return expandHome(c.Cache.Dir)
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
