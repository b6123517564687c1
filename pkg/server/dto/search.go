package dto

import "strings"

// SearchRequest is the body of both search endpoints. A nil TopK takes the
// server's configured default.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  *int   `json:"top_k,omitempty"`
}

// Validate performs validation on SearchRequest
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	if r.TopK != nil && *r.TopK <= 0 {
		return ErrInvalidTopK
	}
	return nil
}

// Limit returns TopK, or fallback when it was omitted.
func (r *SearchRequest) Limit(fallback int) int {
	if r.TopK == nil {
		return fallback
	}
	return *r.TopK
}
