package dto

import "errors"

// Validation errors
var (
	ErrEmptyQuery     = errors.New("query cannot be empty")
	ErrEmptyText      = errors.New("text cannot be empty")
	ErrInvalidTopK    = errors.New("top_k must be positive")
	ErrContentTooLong = errors.New("content exceeds maximum length (1MB)")
	ErrQueryTooLong   = errors.New("query exceeds maximum length (4096)")
)

// MaxFieldLengths defines maximum lengths for fields to prevent abuse
const (
	MaxQueryLength   = 4096
	MaxContentLength = 1024 * 1024 // 1MB
	MaxIDLength      = 256
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
