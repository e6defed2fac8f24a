package favorites

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/killallgit/songpeaks/internal/models"
	"github.com/killallgit/songpeaks/internal/services/youtube"
	"go.uber.org/zap"
)

// ServiceImpl implements Service
type ServiceImpl struct {
	repo      Repository
	fetcher   VideoDataFetcher
	playback  PlaybackRef
	playlists PlaylistPruner
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a new favorites service. fetcher may be nil when only
// local operations are needed.
func NewService(repo Repository, fetcher VideoDataFetcher, logger *zap.Logger) *ServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{
		repo:    repo,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SetPlayback wires the now-playing reference cleared by removals
func (s *ServiceImpl) SetPlayback(p PlaybackRef) {
	s.playback = p
}

// SetPlaylistPruner wires playlist cleanup on favorite removal
func (s *ServiceImpl) SetPlaylistPruner(p PlaylistPruner) {
	s.playlists = p
}

// List returns all favorites in insertion order
func (s *ServiceImpl) List(ctx context.Context) ([]models.FavoriteSong, error) {
	return s.repo.Load(ctx)
}

// Get returns one favorite
func (s *ServiceImpl) Get(ctx context.Context, videoID string) (*models.FavoriteSong, error) {
	favs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(favs, videoID)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &favs[i], nil
}

// Exists reports whether videoID is a favorite
func (s *ServiceImpl) Exists(ctx context.Context, videoID string) (bool, error) {
	favs, err := s.repo.Load(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(favs, videoID) >= 0, nil
}

// Add resolves the video behind rawURL and saves it as a new favorite
func (s *ServiceImpl) Add(ctx context.Context, rawURL string) (*AddResult, error) {
	videoID, ok := youtube.ParseVideoRef(rawURL)
	if !ok {
		return nil, ErrInvalidURL
	}

	exists, err := s.Exists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	data, err := s.fetcher.Fetch(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if data.Title == "" {
		return nil, ErrTitleUnresolvable
	}

	fav := models.FavoriteSong{
		VideoID:             videoID,
		Title:               data.Title,
		ThumbnailURL:        data.ThumbnailURL,
		AddedDate:           s.now().UTC().Format(time.RFC3339),
		Sections:            []models.Section{},
		OriginalSuggestions: append([]models.CandidateRange(nil), data.SuggestedChunks...),
	}
	if d := data.Duration(); d > 0 {
		fav.DurationSeconds = &d
	}

	err = s.repo.Mutate(ctx, "add", func(favs []models.FavoriteSong) ([]models.FavoriteSong, error) {
		if indexOf(favs, videoID) >= 0 {
			return nil, ErrAlreadyExists
		}
		return append(favs, fav), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("favorite added",
		zap.String("video_id", videoID),
		zap.Int("suggestions", len(fav.OriginalSuggestions)))
	return &AddResult{Favorite: &fav, Warning: data.Warning()}, nil
}

// Remove deletes a favorite, clears playback bound to it and prunes playlists
func (s *ServiceImpl) Remove(ctx context.Context, videoID string) error {
	err := s.repo.Mutate(ctx, "remove", func(favs []models.FavoriteSong) ([]models.FavoriteSong, error) {
		i := indexOf(favs, videoID)
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(favs[:i], favs[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	if s.playback != nil && s.playback.ClearIfVideo(videoID) {
		s.logger.Debug("cleared playback of removed favorite", zap.String("video_id", videoID))
	}
	if s.playlists != nil {
		if err := s.playlists.RemoveVideoEverywhere(ctx, videoID); err != nil {
			return err
		}
	}

	s.logger.Info("favorite removed", zap.String("video_id", videoID))
	return nil
}

// mutateFavorite applies fn to the favorite with videoID
func (s *ServiceImpl) mutateFavorite(ctx context.Context, op, videoID string, fn func(fav *models.FavoriteSong) error) error {
	return s.repo.Mutate(ctx, op, func(favs []models.FavoriteSong) ([]models.FavoriteSong, error) {
		i := indexOf(favs, videoID)
		if i < 0 {
			return nil, ErrNotFound
		}
		if err := fn(&favs[i]); err != nil {
			return nil, err
		}
		return favs, nil
	})
}

func indexOf(favs []models.FavoriteSong, videoID string) int {
	for i := range favs {
		if favs[i].VideoID == videoID {
			return i
		}
	}
	return -1
}
