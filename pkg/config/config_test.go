package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apperrors "github.com/killallgit/songpeaks/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetForTest points Init at files inside a temp dir and clears global state
func resetForTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	viper.Reset()
	once = sync.Once{}
	initErr = nil

	prevConfig, prevEnv := configFile, envFile
	configFile = filepath.Join(dir, "settings.yaml")
	envFile = filepath.Join(dir, ".env")

	t.Cleanup(func() {
		configFile, envFile = prevConfig, prevEnv
		viper.Reset()
		once = sync.Once{}
		initErr = nil
	})
	return dir
}

func TestInit_Defaults(t *testing.T) {
	resetForTest(t)

	require.NoError(t, Init())

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3.0, cfg.Segmentation.MinDurationSeconds)
	assert.Equal(t, 18.0, cfg.Segmentation.MaxDurationSeconds)
	assert.Equal(t, 0.20, cfg.Segmentation.IntensityThreshold)
	assert.Equal(t, 0.4, cfg.Segmentation.TimeWeightFactor)
	assert.Equal(t, 0.2, cfg.Timeline.MinSectionSeconds)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.YouTube.BaseURL)
	assert.False(t, cfg.HasHeatmapAPI())
}

func TestInit_SettingsFile(t *testing.T) {
	dir := resetForTest(t)

	content := `
server:
  port: 9000
heatmap:
  base_url: "http://localhost:8081"
segmentation:
  intensity_threshold: 0.35
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(content), 0o644))

	require.NoError(t, Init())
	assert.Equal(t, 9000, GetInt("server.port"))
	assert.Equal(t, 0.35, GetFloat64("segmentation.intensity_threshold"))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.True(t, cfg.HasHeatmapAPI())
}

func TestInit_EnvOverride(t *testing.T) {
	resetForTest(t)
	t.Setenv("SONGPEAKS_SERVER_PORT", "9090")

	require.NoError(t, Init())
	assert.Equal(t, 9090, GetInt("server.port"))
}

func TestInit_DotEnvFile(t *testing.T) {
	dir := resetForTest(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SONGPEAKS_YOUTUBE_API_KEY=from-dotenv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("SONGPEAKS_YOUTUBE_API_KEY") })

	require.NoError(t, Init())
	assert.Equal(t, "from-dotenv", GetString("youtube.api_key"))
}

func TestInit_InvalidPort(t *testing.T) {
	resetForTest(t)
	t.Setenv("SONGPEAKS_SERVER_PORT", "70000")

	err := Init()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeConfigInvalid))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Server:       ServerConfig{Port: 8080},
				Segmentation: SegmentationConfig{MinDurationSeconds: 3, MaxDurationSeconds: 18},
			},
		},
		{
			name:    "invalid port",
			config:  &Config{Server: ServerConfig{Port: 0}},
			wantErr: true,
		},
		{
			name: "min above max",
			config: &Config{
				Server:       ServerConfig{Port: 8080},
				Segmentation: SegmentationConfig{MinDurationSeconds: 20, MaxDurationSeconds: 18},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeConfigInvalid))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tt.config.Storage.Path)
			assert.Equal(t, 0.2, tt.config.Timeline.MinSectionSeconds)
		})
	}
}
