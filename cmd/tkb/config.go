package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/akeil/tkb"
)

const (
	defaultTimeout = 30 * time.Second
	defaultTTL     = 5 * time.Minute
)

type settings struct {
	url       string
	cacheDir  string
	logLevel  string
	logFormat string
	timeout   time.Duration
	cacheTTL  time.Duration
}

// loadSettings reads the configuration.
//
// Values come from (highest priority first) TKB_* environment variables,
// a .env file in the working directory, the config file and the defaults.
// Without an explicit path, the config file is config.yaml in the tkb
// directory below the user's config directory.
func loadSettings(path string) (settings, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return settings{}, err
	}

	v := viper.New()
	v.SetDefault("url", tkb.DefaultURL)
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("log_level", "warning")
	v.SetDefault("log_format", "text")
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("cache_ttl", defaultTTL)

	v.SetEnvPrefix("tkb")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "tkb"))
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return settings{}, err
		}
	}

	return settings{
		url:       v.GetString("url"),
		cacheDir:  v.GetString("cache_dir"),
		logLevel:  v.GetString("log_level"),
		logFormat: v.GetString("log_format"),
		timeout:   v.GetDuration("timeout"),
		cacheTTL:  v.GetDuration("cache_ttl"),
	}, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tkb")
}
