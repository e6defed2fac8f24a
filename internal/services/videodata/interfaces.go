package videodata

import (
	"context"

	"github.com/killallgit/songpeaks/internal/models"
	"github.com/killallgit/songpeaks/internal/services/heatmap"
	"github.com/killallgit/songpeaks/internal/services/youtube"
)

// MetadataClient resolves title, thumbnail and duration of a video
type MetadataClient interface {
	HasAPIKey() bool
	LookupVideo(ctx context.Context, videoID string) (*youtube.Video, error)
}

// HeatmapClient fetches most-replayed intensity samples
type HeatmapClient interface {
	Configured() bool
	FetchMostReplayed(ctx context.Context, videoID string) (*heatmap.Result, error)
}

// Service produces the derived data for a video
type Service interface {
	Fetch(ctx context.Context, videoID string) (*models.VideoData, error)
}
