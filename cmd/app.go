package cmd

import (
	"fmt"

	"github.com/killallgit/songpeaks/internal/database"
	"github.com/killallgit/songpeaks/internal/logger"
	"github.com/killallgit/songpeaks/internal/metrics"
	"github.com/killallgit/songpeaks/internal/playback"
	"github.com/killallgit/songpeaks/internal/services/cache"
	"github.com/killallgit/songpeaks/internal/services/favorites"
	"github.com/killallgit/songpeaks/internal/services/heatmap"
	"github.com/killallgit/songpeaks/internal/services/playlists"
	"github.com/killallgit/songpeaks/internal/services/videodata"
	"github.com/killallgit/songpeaks/internal/services/youtube"
	"github.com/killallgit/songpeaks/pkg/config"
	"go.uber.org/zap"
)

// app is the wired service graph shared by commands
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
	db        *database.DB
	cache     *cache.MemoryCache
	videoData *videodata.ServiceImpl
	favorites *favorites.ServiceImpl
	playlists *playlists.Service
	player    *playback.EmbedPlayer
	binding   *playback.Binding
}

// newApp builds every service from the loaded configuration
func newApp() (*app, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Initialize(cfg.Storage.Path, cfg.Storage.Verbose, log.Named("database"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.YouTube.APIKey == "" {
		log.Warn("youtube api key not set; titles come from the heatmap service only")
	}

	m := metrics.New()
	mc := cache.NewMemoryCache(cfg.Cache.MaxEntries)

	yt := youtube.NewClient(youtube.Config{
		APIKey:            cfg.YouTube.APIKey,
		BaseURL:           cfg.YouTube.BaseURL,
		Timeout:           cfg.YouTube.Timeout,
		RequestsPerMinute: cfg.YouTube.RequestsPerMinute,
	}, log.Named("youtube"))
	hm := heatmap.NewClient(heatmap.Config{
		BaseURL: cfg.Heatmap.BaseURL,
		Timeout: cfg.Heatmap.Timeout,
	}, log.Named("heatmap"))

	vd := videodata.NewService(yt, hm,
		videodata.WithCache(mc, cfg.Cache.TTL),
		videodata.WithSegmentation(heatmap.Options{
			MinDurationSeconds: cfg.Segmentation.MinDurationSeconds,
			MaxDurationSeconds: cfg.Segmentation.MaxDurationSeconds,
			IntensityThreshold: cfg.Segmentation.IntensityThreshold,
			TimeWeightFactor:   cfg.Segmentation.TimeWeightFactor,
		}),
		videodata.WithMetrics(m),
		videodata.WithLogger(log.Named("videodata")),
	)

	fav := favorites.NewService(favorites.NewRepository(db, m, log.Named("favorites")), vd, log.Named("favorites"))
	pl := playlists.NewService(db, fav, m, log.Named("playlists"))

	player := playback.NewEmbedPlayer()
	binding := playback.NewBinding(player, playback.WithLogger(log.Named("playback")))

	fav.SetPlayback(binding)
	fav.SetPlaylistPruner(pl)

	return &app{
		cfg:       cfg,
		logger:    log,
		metrics:   m,
		db:        db,
		cache:     mc,
		videoData: vd,
		favorites: fav,
		playlists: pl,
		player:    player,
		binding:   binding,
	}, nil
}

// Close releases background workers and the database
func (a *app) Close() {
	a.binding.Close()
	a.cache.Stop()
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
