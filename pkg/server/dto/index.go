package dto

import (
	"errors"
	"strings"

	"github.com/soundprediction/graphrag/pkg/types"
)

// IndexRequest adds one chunk of text to the corpus.
type IndexRequest struct {
	ChunkID string `json:"chunk_id,omitempty"`
	DocID   string `json:"doc_id"`
	Source  string `json:"source,omitempty"`
	Text    string `json:"text" binding:"required"`
}

// Validate performs validation on IndexRequest
func (r *IndexRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if len(r.Text) > MaxContentLength {
		return ErrContentTooLong
	}
	if len(r.ChunkID) > MaxIDLength || len(r.DocID) > MaxIDLength {
		return errors.New("chunk_id and doc_id must not exceed 256 characters")
	}
	return nil
}

// Chunk converts the request into a chunk.
func (r *IndexRequest) Chunk() types.Chunk {
	return types.Chunk{
		ChunkID: r.ChunkID,
		DocID:   r.DocID,
		Source:  r.Source,
		Text:    r.Text,
	}
}
