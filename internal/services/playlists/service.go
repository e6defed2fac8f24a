package playlists

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/killallgit/songpeaks/internal/database"
	"github.com/killallgit/songpeaks/internal/metrics"
	"github.com/killallgit/songpeaks/internal/models"
	apperrors "github.com/killallgit/songpeaks/pkg/errors"
	"go.uber.org/zap"
)

// SlotKey is the storage key of the playlist collection
const SlotKey = "playlists"

var (
	ErrNameRequired  = apperrors.New(apperrors.ErrCodeMissingField, "Playlist name required.")
	ErrNotFound      = apperrors.New(apperrors.ErrCodeNotFound, "Playlist not found.")
	ErrNotFavorite   = apperrors.New(apperrors.ErrCodeValidation, "Only favorites can be added to a playlist.")
	ErrAlreadyInList = apperrors.New(apperrors.ErrCodeAlreadyExists, "Song already in playlist.")
	ErrSongNotInList = apperrors.New(apperrors.ErrCodeNotFound, "Song not in playlist.")
)

// FavoriteChecker confirms a video is a saved favorite
type FavoriteChecker interface {
	Exists(ctx context.Context, videoID string) (bool, error)
}

// Service manages playlists stored in their own slot
type Service struct {
	slots     database.SlotStore
	favorites FavoriteChecker
	metrics   *metrics.Metrics
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a new playlist service
func NewService(slots database.SlotStore, favorites FavoriteChecker, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		slots:     slots,
		favorites: favorites,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// List returns all playlists
func (s *Service) List(ctx context.Context) ([]models.Playlist, error) {
	raw, _, err := s.slots.GetSlot(ctx, SlotKey)
	if err != nil {
		return nil, apperrors.StorageError("load playlists", err)
	}
	return s.decode(raw), nil
}

// Get returns one playlist
func (s *Service) Get(ctx context.Context, id string) (*models.Playlist, error) {
	lists, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(lists, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &lists[i], nil
}

// Create adds an empty playlist
func (s *Service) Create(ctx context.Context, name string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	playlist := models.Playlist{
		ID:           s.newID(),
		Name:         name,
		SongVideoIDs: []string{},
		CreatedDate:  s.now().UTC().Format(time.RFC3339),
	}
	err := s.mutate(ctx, "create", func(lists []models.Playlist) ([]models.Playlist, error) {
		return append(lists, playlist), nil
	})
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Delete removes a playlist
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete", func(lists []models.Playlist) ([]models.Playlist, error) {
		i := indexOf(lists, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(lists[:i], lists[i+1:]...), nil
	})
}

// AddSong appends a favorite to a playlist
func (s *Service) AddSong(ctx context.Context, id, videoID string) error {
	if s.favorites != nil {
		ok, err := s.favorites.Exists(ctx, videoID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFavorite
		}
	}

	return s.mutate(ctx, "add_song", func(lists []models.Playlist) ([]models.Playlist, error) {
		i := indexOf(lists, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if lists[i].Contains(videoID) {
			return nil, ErrAlreadyInList
		}
		lists[i].SongVideoIDs = append(lists[i].SongVideoIDs, videoID)
		return lists, nil
	})
}

// RemoveSong drops a video from a playlist
func (s *Service) RemoveSong(ctx context.Context, id, videoID string) error {
	return s.mutate(ctx, "remove_song", func(lists []models.Playlist) ([]models.Playlist, error) {
		i := indexOf(lists, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if !lists[i].Contains(videoID) {
			return nil, ErrSongNotInList
		}
		lists[i].SongVideoIDs = without(lists[i].SongVideoIDs, videoID)
		return lists, nil
	})
}

// RemoveVideoEverywhere drops a video from every playlist
func (s *Service) RemoveVideoEverywhere(ctx context.Context, videoID string) error {
	return s.mutate(ctx, "prune", func(lists []models.Playlist) ([]models.Playlist, error) {
		for i := range lists {
			lists[i].SongVideoIDs = without(lists[i].SongVideoIDs, videoID)
		}
		return lists, nil
	})
}

func (s *Service) mutate(ctx context.Context, op string, fn func([]models.Playlist) ([]models.Playlist, error)) error {
	err := s.slots.UpdateSlot(ctx, SlotKey, func(current []byte) ([]byte, error) {
		next, err := fn(s.decode(current))
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []models.Playlist{}
		}
		return json.Marshal(next)
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.StorageError(op, err)
	}

	s.metrics.IncStoreMutation(SlotKey, op)
	s.logger.Debug("playlists updated", zap.String("op", op))
	return nil
}

func (s *Service) decode(raw []byte) []models.Playlist {
	lists := []models.Playlist{}
	if len(raw) == 0 {
		return lists
	}
	if err := json.Unmarshal(raw, &lists); err != nil {
		s.logger.Warn("playlists slot is corrupt, treating as empty", zap.Error(err))
		return []models.Playlist{}
	}
	for i := range lists {
		if lists[i].SongVideoIDs == nil {
			lists[i].SongVideoIDs = []string{}
		}
	}
	return lists
}

func indexOf(lists []models.Playlist, id string) int {
	for i := range lists {
		if lists[i].ID == id {
			return i
		}
	}
	return -1
}

func without(ids []string, videoID string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != videoID {
			out = append(out, id)
		}
	}
	return out
}
