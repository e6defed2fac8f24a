package videodata

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/killallgit/songpeaks/internal/metrics"
	"github.com/killallgit/songpeaks/internal/models"
	"github.com/killallgit/songpeaks/internal/services/cache"
	"github.com/killallgit/songpeaks/internal/services/heatmap"
	"github.com/killallgit/songpeaks/internal/services/youtube"
	apperrors "github.com/killallgit/songpeaks/pkg/errors"
	"go.uber.org/zap"
)

// User facing messages of the derived-data endpoint
const (
	MsgVideoIDRequired   = "Video ID required"
	MsgMissingHeatmapURL = "Server config error: Missing operational API URL"
	MsgVideoNotFound     = "Video not found"
	MsgTitleUnavailable  = "Could not retrieve video title"
)

// ServiceImpl implements Service on top of the YouTube and heatmap clients
type ServiceImpl struct {
	metadata MetadataClient
	heatmap  HeatmapClient
	cache    cache.Cache
	cacheTTL time.Duration
	options  heatmap.Options
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// Option configures a ServiceImpl
type Option func(*ServiceImpl)

// WithCache memoizes successful results per video id
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *ServiceImpl) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithSegmentation overrides the suggestion tuning
func WithSegmentation(opts heatmap.Options) Option {
	return func(s *ServiceImpl) { s.options = opts }
}

// WithMetrics records lookup outcomes
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ServiceImpl) { s.metrics = m }
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *ServiceImpl) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a new derived-data service
func NewService(metadata MetadataClient, heatmapClient HeatmapClient, opts ...Option) *ServiceImpl {
	s := &ServiceImpl{
		metadata: metadata,
		heatmap:  heatmapClient,
		options:  heatmap.DefaultOptions(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch resolves title, thumbnail, duration and suggested sections for a video.
// Errors are *apperrors.AppError carrying the HTTP status of the failure.
func (s *ServiceImpl) Fetch(ctx context.Context, videoID string) (*models.VideoData, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingField, MsgVideoIDRequired)
	}
	if s.heatmap == nil || !s.heatmap.Configured() {
		s.logger.Error("heatmap API URL missing")
		return nil, apperrors.New(apperrors.ErrCodeConfigRequired, MsgMissingHeatmapURL)
	}

	if data, ok := s.cached(ctx, videoID); ok {
		s.metrics.IncVideoRequest(metrics.OutcomeCached)
		return data, nil
	}

	data, err := s.resolve(ctx, videoID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeNotFound) {
			s.metrics.IncVideoRequest(metrics.OutcomeNotFound)
		} else {
			s.metrics.IncVideoRequest(metrics.OutcomeError)
		}
		return nil, err
	}

	s.metrics.IncVideoRequest(metrics.OutcomeOK)
	s.metrics.ObserveSuggestions(len(data.SuggestedChunks))
	if data.OperationalAPIWarning != nil {
		s.metrics.IncUpstreamWarning()
	}
	s.store(ctx, videoID, data)
	return data, nil
}

func (s *ServiceImpl) resolve(ctx context.Context, videoID string) (*models.VideoData, error) {
	log := s.logger.With(zap.String("video_id", videoID))
	data := &models.VideoData{SuggestedChunks: []models.CandidateRange{}}

	var durationSeconds float64
	if s.metadata != nil && s.metadata.HasAPIKey() {
		video, err := s.metadata.LookupVideo(ctx, videoID)
		var statusErr *youtube.StatusError
		switch {
		case err == nil:
			data.Title = video.Title
			data.ThumbnailURL = video.ThumbnailURL
			durationSeconds = video.DurationSeconds
		case errors.Is(err, youtube.ErrVideoNotFound):
			log.Warn("video not found via YouTube API")
			return nil, apperrors.New(apperrors.ErrCodeNotFound, MsgVideoNotFound)
		case errors.As(err, &statusErr):
			// Proceed without title, thumbnail or duration
			log.Warn("YouTube API lookup failed", zap.Int("status", statusErr.StatusCode))
		default:
			return nil, apperrors.ExternalServiceError("youtube", err)
		}
	} else {
		log.Warn("no YouTube API key, title and duration depend on the heatmap service")
	}

	result, err := s.heatmap.FetchMostReplayed(ctx, videoID)
	if err != nil {
		return nil, apperrors.ExternalServiceError("heatmap", err)
	}
	if result.Warning != "" {
		warning := result.Warning
		data.OperationalAPIWarning = &warning
		log.Warn("heatmap service warning", zap.String("warning", warning))
	}
	if data.Title == "" {
		data.Title = result.Title
	}
	if result.HasMarkers {
		data.SuggestedChunks = heatmap.FindSuggestedChunks(result.Samples, durationSeconds, heatmap.WithOptions(s.options))
	}

	if data.Title == "" {
		message := MsgTitleUnavailable
		if data.OperationalAPIWarning != nil {
			message = *data.OperationalAPIWarning
		}
		log.Error("failed to retrieve title from any source")
		return nil, apperrors.New(apperrors.ErrCodeNotFound, message)
	}

	if durationSeconds > 0 {
		data.DurationSeconds = &durationSeconds
	}

	log.Debug("derived data resolved",
		zap.Int("suggestions", len(data.SuggestedChunks)),
		zap.Float64("duration_seconds", durationSeconds),
		zap.Bool("warning", data.OperationalAPIWarning != nil))
	return data, nil
}

func (s *ServiceImpl) cached(ctx context.Context, videoID string) (*models.VideoData, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(ctx, videoID)
	if !ok {
		return nil, false
	}
	var data models.VideoData
	if err := json.Unmarshal(raw, &data); err != nil {
		_ = s.cache.Delete(ctx, videoID)
		return nil, false
	}
	return &data, true
}

func (s *ServiceImpl) store(ctx context.Context, videoID string, data *models.VideoData) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, videoID, raw, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache derived data", zap.String("video_id", videoID), zap.Error(err))
	}
}
