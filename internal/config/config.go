// Package config loads application settings from config.json (or another
// file) with RECIPEBOOK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"recipebook/internal/logger"
)

const (
	envPrefix     = "RECIPEBOOK"
	configPathEnv = "RECIPEBOOK_CONFIG"

	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Images   ImagesConfig   `mapstructure:"images"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      logger.Config  `mapstructure:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	StaticDir       string        `mapstructure:"static_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DataConfig says where the recipe dataset comes from.
type DataConfig struct {
	Source   string `mapstructure:"source"`
	Path     string `mapstructure:"path"`
	MediaDir string `mapstructure:"media_dir"`
	Timezone string `mapstructure:"timezone"`
}

// DatabaseConfig describes the Postgres mirror.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// TelegramConfig wires the bot used to announce the daily recipe.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	AppURL   string `mapstructure:"app_url"`
}

// ImagesConfig controls thumbnail generation.
type ImagesConfig struct {
	ThumbnailWidth uint   `mapstructure:"thumbnail_width"`
	CacheDir       string `mapstructure:"cache_dir"`
}

// CacheConfig bounds filter-result memoization.
type CacheConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

// Load reads configuration from path. An empty path falls back to
// $RECIPEBOOK_CONFIG, then to ./config.json; a missing default file is not
// an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"https://web.telegram.org"})
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("data.source", SourceFile)
	v.SetDefault("data.path", "data/recipes_extracted.json")
	v.SetDefault("data.media_dir", "data/media")
	v.SetDefault("data.timezone", "Local")

	v.SetDefault("database.url", "")

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.app_url", "")

	v.SetDefault("images.thumbnail_width", 800)
	v.SetDefault("images.cache_dir", "images")

	v.SetDefault("cache.max_entries", 256)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourceFile:
		if c.Data.Path == "" {
			return errors.New("data.path is required for the file source")
		}
	case SourcePostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown data.source %q", c.Data.Source)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Images.ThumbnailWidth == 0 {
		return errors.New("images.thumbnail_width must be positive")
	}
	return nil
}

// Location resolves data.timezone, the zone whose calendar picks the daily recipe.
func (c *Config) Location() (*time.Location, error) {
	if c.Data.Timezone == "" || c.Data.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Data.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown data.timezone %q: %w", c.Data.Timezone, err)
	}
	return loc, nil
}
