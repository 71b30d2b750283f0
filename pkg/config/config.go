// Package config loads ticketcore's runtime settings the way
// shivamshaw23-Hintro's config package does: viper over environment
// variables plus an optional .env file, with defaults set before read so
// every field is always populated.
package config

import (
	"log/slog"

	"github.com/spf13/viper"
)

// Config holds every runtime setting the engine needs.
type Config struct {
	Store StoreConfig
	Log   LogConfig
}

// StoreConfig controls where the seven PMap files live and how much page
// cache each one gets.
type StoreConfig struct {
	DataDir       string `mapstructure:"TICKETCORE_DATA_DIR"`
	CacheCapacity int    `mapstructure:"TICKETCORE_CACHE_CAPACITY"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"TICKETCORE_LOG_LEVEL"`
	JSON  bool   `mapstructure:"TICKETCORE_LOG_JSON"`
}

// SlogLevel parses LogConfig.Level, defaulting to Info on an unrecognised
// value.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads configuration from environment variables and an optional
// .env file in the working directory.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("TICKETCORE_DATA_DIR", "./data")
	viper.SetDefault("TICKETCORE_CACHE_CAPACITY", 256)
	viper.SetDefault("TICKETCORE_LOG_LEVEL", "info")
	viper.SetDefault("TICKETCORE_LOG_JSON", false)

	// Ignore a missing .env file; env vars alone are a valid configuration.
	_ = viper.ReadInConfig()

	cfg := &Config{
		Store: StoreConfig{
			DataDir:       viper.GetString("TICKETCORE_DATA_DIR"),
			CacheCapacity: viper.GetInt("TICKETCORE_CACHE_CAPACITY"),
		},
		Log: LogConfig{
			Level: viper.GetString("TICKETCORE_LOG_LEVEL"),
			JSON:  viper.GetBool("TICKETCORE_LOG_JSON"),
		},
	}
	return cfg, nil
}
