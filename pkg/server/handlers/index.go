package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/graphrag"
	"github.com/soundprediction/graphrag/pkg/server/dto"
)

// IndexHandler handles corpus ingestion and graph statistics.
type IndexHandler struct {
	indexer graphrag.CorpusIndexer
	stats   graphrag.StatsProvider
}

// NewIndexHandler creates a new index handler
func NewIndexHandler(indexer graphrag.CorpusIndexer, stats graphrag.StatsProvider) *IndexHandler {
	return &IndexHandler{indexer: indexer, stats: stats}
}

// Index handles POST /api/v1/index
func (h *IndexHandler) Index(c *gin.Context) {
	var req dto.IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.indexer.IndexText(c.Request.Context(), req.Chunk())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Stats handles GET /api/v1/stats
func (h *IndexHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
