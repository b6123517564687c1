package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/graphrag"
	"github.com/soundprediction/graphrag/pkg/server/dto"
)

// SearchHandler serves local and global search.
type SearchHandler struct {
	searcher   graphrag.Searcher
	localTopK  int
	globalTopK int
}

// NewSearchHandler creates a search handler. Non-positive defaults fall
// back to the client defaults.
func NewSearchHandler(searcher graphrag.Searcher, localTopK, globalTopK int) *SearchHandler {
	if localTopK <= 0 {
		localTopK = graphrag.DefaultLocalTopK
	}
	if globalTopK <= 0 {
		globalTopK = graphrag.DefaultGlobalTopK
	}
	return &SearchHandler{
		searcher:   searcher,
		localTopK:  localTopK,
		globalTopK: globalTopK,
	}
}

// LocalSearch handles POST /api/v1/search/local
func (h *SearchHandler) LocalSearch(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}
	result, err := h.searcher.LocalSearch(c.Request.Context(), req.Query, req.Limit(h.localTopK))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GlobalSearch handles POST /api/v1/search/global
func (h *SearchHandler) GlobalSearch(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}
	result, err := h.searcher.GlobalSearch(c.Request.Context(), req.Query, req.Limit(h.globalTopK))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func bindSearch(c *gin.Context) (*dto.SearchRequest, bool) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return nil, false
	}
	return &req, true
}
