package types

import (
	"github.com/killallgit/songpeaks/internal/database"
	"github.com/killallgit/songpeaks/internal/metrics"
	"github.com/killallgit/songpeaks/internal/services/cache"
	"github.com/killallgit/songpeaks/internal/services/videodata"
	"go.uber.org/zap"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB        *database.DB
	VideoData videodata.Service
	Cache     cache.StatsProvider
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	Version   string
}
