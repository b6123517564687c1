package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/graphrag/pkg/server/dto"
	"github.com/soundprediction/graphrag/pkg/types"
)

// statusFor maps a pipeline error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrEmptyQuery),
		errors.Is(err, types.ErrInvalidLimit),
		errors.Is(err, types.ErrEmptyID),
		errors.Is(err, types.ErrEmptyName):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}

// writeError writes an error response as JSON
func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, dto.ErrorResponse{
		Error:   errorCode(status),
		Message: err.Error(),
		Code:    status,
	})
}

// respondError writes err with the status it maps to.
func respondError(c *gin.Context, err error) {
	writeError(c, statusFor(err), err)
}
