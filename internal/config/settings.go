package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ytget/yt-mp3/internal/platform"
)

// Settings keys
const (
	KeyDownloadDir  = "download_directory"
	KeyMaxParallel  = "max_parallel_downloads"
	KeyQuality      = "quality_preset"
	KeyMaxURLLength = "max_url_length"
)

// Default values
const (
	DefaultMaxParallel  = 3
	DefaultQuality      = "standard"
	DefaultMaxURLLength = 500

	// MinParallel and MaxParallel bound the configurable concurrency cap
	MinParallel = 1
	MaxParallel = 10
)

// EnvPrefix is the prefix for environment variable overrides (e.g.,
// YTMP3_MAX_PARALLEL_DOWNLOADS)
const EnvPrefix = "YTMP3"

// Settings holds the application configuration
type Settings struct {
	DownloadDir  string
	MaxParallel  int
	Quality      string
	MaxURLLength int
}

// Load reads configuration from an optional config file (config.yaml in the
// working directory or ./config) and the environment, applying defaults and
// bounds.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyDownloadDir, "")
	v.SetDefault(KeyMaxParallel, DefaultMaxParallel)
	v.SetDefault(KeyQuality, DefaultQuality)
	v.SetDefault(KeyMaxURLLength, DefaultMaxURLLength)

	// Config file is optional
	_ = v.ReadInConfig()

	s := &Settings{
		DownloadDir:  v.GetString(KeyDownloadDir),
		MaxParallel:  v.GetInt(KeyMaxParallel),
		Quality:      v.GetString(KeyQuality),
		MaxURLLength: v.GetInt(KeyMaxURLLength),
	}

	if s.DownloadDir == "" {
		dir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve downloads directory: %w", err)
		}
		s.DownloadDir = dir
	}

	s.MaxParallel = ClampParallel(s.MaxParallel)

	if s.MaxURLLength < 1 {
		s.MaxURLLength = DefaultMaxURLLength
	}

	return s, nil
}

// ClampParallel bounds a concurrency value to the supported range
func ClampParallel(count int) int {
	if count < MinParallel {
		return MinParallel
	}
	if count > MaxParallel {
		return MaxParallel
	}
	return count
}
