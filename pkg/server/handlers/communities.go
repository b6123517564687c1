package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/graphrag"
)

// CommunityHandler rebuilds communities on demand.
type CommunityHandler struct {
	manager graphrag.CommunityManager
}

// NewCommunityHandler creates a community handler
func NewCommunityHandler(manager graphrag.CommunityManager) *CommunityHandler {
	return &CommunityHandler{manager: manager}
}

// Build handles POST /api/v1/communities/build. The build runs in the
// request; summaries are replaced only if every community succeeds.
func (h *CommunityHandler) Build(c *gin.Context) {
	result, err := h.manager.BuildCommunities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
