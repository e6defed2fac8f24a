package favorites

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/killallgit/songpeaks/internal/database"
	"github.com/killallgit/songpeaks/internal/metrics"
	"github.com/killallgit/songpeaks/internal/models"
	apperrors "github.com/killallgit/songpeaks/pkg/errors"
	"go.uber.org/zap"
)

// SlotKey is the storage key of the favorites collection
const SlotKey = "favoriteSongs"

// RepositoryImpl keeps the favorites collection in one JSON slot
type RepositoryImpl struct {
	slots   database.SlotStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRepository creates a new favorites repository
func NewRepository(slots database.SlotStore, m *metrics.Metrics, logger *zap.Logger) *RepositoryImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryImpl{slots: slots, metrics: m, logger: logger}
}

// Load returns the stored collection; absent or corrupt data reads as empty
func (r *RepositoryImpl) Load(ctx context.Context) ([]models.FavoriteSong, error) {
	raw, _, err := r.slots.GetSlot(ctx, SlotKey)
	if err != nil {
		return nil, apperrors.StorageError("load favorites", err)
	}
	return r.decode(raw), nil
}

// Mutate applies fn to the stored collection and writes the result in full
func (r *RepositoryImpl) Mutate(ctx context.Context, op string, fn func([]models.FavoriteSong) ([]models.FavoriteSong, error)) error {
	err := r.slots.UpdateSlot(ctx, SlotKey, func(current []byte) ([]byte, error) {
		next, err := fn(r.decode(current))
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []models.FavoriteSong{}
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

	r.metrics.IncStoreMutation(SlotKey, op)
	return nil
}

func (r *RepositoryImpl) decode(raw []byte) []models.FavoriteSong {
	favs := []models.FavoriteSong{}
	if len(raw) == 0 {
		return favs
	}
	if err := json.Unmarshal(raw, &favs); err != nil {
		r.logger.Warn("favorites slot is corrupt, treating as empty", zap.Error(err))
		return []models.FavoriteSong{}
	}
	for i := range favs {
		if favs[i].Sections == nil {
			favs[i].Sections = []models.Section{}
		}
	}
	return favs
}
