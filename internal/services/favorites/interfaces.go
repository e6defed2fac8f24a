package favorites

import (
	"context"

	"github.com/killallgit/songpeaks/internal/models"
)

// Repository persists the whole favorites collection as one document
type Repository interface {
	Load(ctx context.Context) ([]models.FavoriteSong, error)
	Mutate(ctx context.Context, op string, fn func([]models.FavoriteSong) ([]models.FavoriteSong, error)) error
}

// VideoDataFetcher resolves title, duration and suggestions for a new favorite
type VideoDataFetcher interface {
	Fetch(ctx context.Context, videoID string) (*models.VideoData, error)
}

// PlaybackRef is the "now playing" reference that removals must clear
type PlaybackRef interface {
	ClearIfSection(videoID, sectionID string) bool
	ClearIfVideo(videoID string) bool
}

// PlaylistPruner drops a removed favorite from every playlist
type PlaylistPruner interface {
	RemoveVideoEverywhere(ctx context.Context, videoID string) error
}

// Service manages favorites and the per-video section lists
type Service interface {
	List(ctx context.Context) ([]models.FavoriteSong, error)
	Get(ctx context.Context, videoID string) (*models.FavoriteSong, error)
	Exists(ctx context.Context, videoID string) (bool, error)
	Add(ctx context.Context, rawURL string) (*AddResult, error)
	Remove(ctx context.Context, videoID string) error

	InsertSection(ctx context.Context, videoID string, section models.Section) (bool, error)
	PromoteCandidate(ctx context.Context, videoID string, candidate models.CandidateRange, index int) (*models.Section, bool, error)
	CreateSection(ctx context.Context, videoID, name string, start, end float64) (*models.Section, error)
	UpdateSection(ctx context.Context, videoID, sectionID string, start, end float64) (*models.Section, error)
	RemoveSection(ctx context.Context, videoID, sectionID string) error
	ToggleSuggestion(ctx context.Context, videoID string, index int) (saved bool, err error)
	IsSuggestionSaved(ctx context.Context, videoID string, index int) (bool, error)
}

// AddResult is a newly saved favorite plus the non-fatal upstream warning, if any
type AddResult struct {
	Favorite *models.FavoriteSong
	Warning  string
}
