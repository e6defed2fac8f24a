package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/songpeaks/api/types"
)

// Get handles version requests
// @Summary      Service version
// @Tags         health
// @Produce      json
// @Success      200 {object} types.VersionResponse
// @Router       / [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	version := "dev"
	if deps != nil && deps.Version != "" {
		version = deps.Version
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.VersionResponse{
			Name:        "SongPeaks API",
			Version:     version,
			Description: "Most-replayed section suggestions for YouTube songs",
			Status:      "running",
		})
	}
}
