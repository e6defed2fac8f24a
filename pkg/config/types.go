package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string             `mapstructure:"environment"`
	Server       ServerConfig       `mapstructure:"server"`
	Storage      StorageConfig      `mapstructure:"storage"`
	YouTube      YouTubeConfig      `mapstructure:"youtube"`
	Heatmap      HeatmapConfig      `mapstructure:"heatmap"`
	Segmentation SegmentationConfig `mapstructure:"segmentation"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Timeline     TimelineConfig     `mapstructure:"timeline"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// StorageConfig points at the local SQLite file backing the favorites and playlists slots
type StorageConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// YouTubeConfig contains YouTube Data API v3 settings
type YouTubeConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// HeatmapConfig points at the self-hosted most-replayed API
type HeatmapConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SegmentationConfig tunes suggestion extraction
type SegmentationConfig struct {
	MinDurationSeconds float64 `mapstructure:"min_duration_seconds"`
	MaxDurationSeconds float64 `mapstructure:"max_duration_seconds"`
	IntensityThreshold float64 `mapstructure:"intensity_threshold"`
	TimeWeightFactor   float64 `mapstructure:"time_weight_factor"`
}

// CacheConfig contains derived-data cache settings
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// RateLimitConfig contains per-client HTTP rate limiting settings
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// TimelineConfig contains timeline editing settings
type TimelineConfig struct {
	MinSectionSeconds float64 `mapstructure:"min_section_seconds"`
}
