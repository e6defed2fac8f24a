package videodata

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/songpeaks/api/types"
	svc "github.com/killallgit/songpeaks/internal/services/videodata"
)

// Get handles derived video data requests
// @Summary      Get derived video data
// @Description  Title, thumbnail, duration and suggested sections for a YouTube video. Suggestions come from the most-replayed heatmap; heatmap problems are reported in operationalApiWarning instead of failing the request.
// @Tags         videos
// @Produce      json
// @Param        videoId query string true "YouTube video id"
// @Success      200 {object} models.VideoData "Derived video data"
// @Failure      400 {object} types.ErrorResponse "Video ID required"
// @Failure      404 {object} types.ErrorResponse "Video not found or title unresolvable"
// @Failure      500 {object} types.ErrorResponse "Server configuration error"
// @Failure      502 {object} types.ErrorResponse "Upstream network error"
// @Router       /api/getYoutubeData [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps == nil || deps.VideoData == nil {
			types.SendInternalError(c, svc.MsgMissingHeatmapURL)
			return
		}

		data, err := deps.VideoData.Fetch(c.Request.Context(), c.Query("videoId"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, data)
	}
}
