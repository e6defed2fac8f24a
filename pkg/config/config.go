package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	apperrors "github.com/killallgit/songpeaks/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SONGPEAKS_SERVER_PORT
const EnvPrefix = "SONGPEAKS"

var (
	once    sync.Once
	initErr error

	// configFile is the optional settings file read on Init
	configFile = filepath.Clean("./config/settings.yaml")
	// envFile is the optional dotenv file loaded before viper reads the environment
	envFile = ".env"
)

// Init initializes the configuration system.
// This should be called once at application startup.
func Init() error {
	once.Do(func() {
		// Existing process env wins over .env values
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			initErr = fmt.Errorf("error loading %s: %w", envFile, err)
			return
		}

		setDefaults()

		viper.SetEnvPrefix(EnvPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			initErr = fmt.Errorf("error reading config file %s: %w", configFile, err)
			return
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct.
// Init() must be called before using this.
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// Set overrides a config value, used by CLI flags
func Set(key string, value any) {
	viper.Set(key, value)
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return apperrors.ConfigError("server.port", fmt.Sprintf("must be between 1 and 65535, got %d", port))
	}

	if viper.GetFloat64("segmentation.min_duration_seconds") > viper.GetFloat64("segmentation.max_duration_seconds") {
		return apperrors.ConfigError("segmentation.min_duration_seconds", "exceeds segmentation.max_duration_seconds")
	}

	// Auto-correct values that would disable the store or timeline
	if viper.GetString("storage.path") == "" {
		viper.Set("storage.path", "./data/songpeaks.db")
	}
	if viper.GetFloat64("timeline.min_section_seconds") <= 0 {
		viper.Set("timeline.min_section_seconds", 0.2)
	}

	return nil
}

// Validate validates a Config struct
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperrors.ConfigError("server.port", fmt.Sprintf("must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Segmentation.MinDurationSeconds > c.Segmentation.MaxDurationSeconds {
		return apperrors.ConfigError("segmentation.min_duration_seconds",
			fmt.Sprintf("%.2fs exceeds max %.2fs", c.Segmentation.MinDurationSeconds, c.Segmentation.MaxDurationSeconds))
	}

	if c.Storage.Path == "" {
		c.Storage.Path = "./data/songpeaks.db"
	}
	if c.Timeline.MinSectionSeconds <= 0 {
		c.Timeline.MinSectionSeconds = 0.2
	}

	return nil
}

// HasHeatmapAPI reports whether the self-hosted most-replayed API is configured
func (c *Config) HasHeatmapAPI() bool {
	return strings.TrimSpace(c.Heatmap.BaseURL) != ""
}

func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.cors_origins", []string{"*"})

	// Storage defaults
	viper.SetDefault("storage.path", "./data/songpeaks.db")
	viper.SetDefault("storage.verbose", false)

	// YouTube Data API defaults
	viper.SetDefault("youtube.api_key", "")
	viper.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	viper.SetDefault("youtube.timeout", 10*time.Second)
	viper.SetDefault("youtube.requests_per_minute", 60)

	// Self-hosted heatmap API defaults
	viper.SetDefault("heatmap.base_url", "")
	viper.SetDefault("heatmap.timeout", 10*time.Second)

	// Segmentation defaults
	viper.SetDefault("segmentation.min_duration_seconds", 3.0)
	viper.SetDefault("segmentation.max_duration_seconds", 18.0)
	viper.SetDefault("segmentation.intensity_threshold", 0.20)
	viper.SetDefault("segmentation.time_weight_factor", 0.4)

	// Cache defaults
	viper.SetDefault("cache.ttl", 10*time.Minute)
	viper.SetDefault("cache.max_entries", 500)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")

	// Rate limiting defaults
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.rps", 5.0)
	viper.SetDefault("rate_limit.burst", 10)

	// Timeline defaults
	viper.SetDefault("timeline.min_section_seconds", 0.2)
}
