// Package admin exposes operator-only maintenance routes.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matthinz/lunchbot/internal/httpcache"
)

// Handler serves cache maintenance for operators.
type Handler struct {
	cacheDir string
}

func NewHandler(cacheDir string) *Handler {
	return &Handler{cacheDir: cacheDir}
}

// PurgeCache deletes every cached response file and reports how many were
// removed. The next request for any month re-fetches from upstream.
func (h *Handler) PurgeCache(c *gin.Context) {
	removed, err := httpcache.Purge(h.cacheDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
