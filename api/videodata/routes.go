package videodata

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/songpeaks/api/types"
)

// RegisterRoutes registers the derived-data route on router
func RegisterRoutes(router gin.IRoutes, deps *types.Dependencies) {
	router.GET("/getYoutubeData", Get(deps))
}
