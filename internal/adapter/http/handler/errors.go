package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/BullyGuard/internal/domain/repository"
	"github.com/ressKim-io/BullyGuard/internal/domain/service"
	"github.com/ressKim-io/BullyGuard/internal/usecase"
)

// Error details returned to clients
const (
	DetailEmptyText            = "Input text cannot be empty."
	DetailInferenceUnavailable = "inference unavailable"
	DetailNotFound             = "tweet not found"
	DetailInternal             = "internal server error"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Detail     string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapUsecaseError(err error) ErrorResponse {
	switch {
	case errors.Is(err, usecase.ErrEmptyText):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Detail:     DetailEmptyText,
		}
	case errors.Is(err, usecase.ErrInvalidRequest):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Detail:     err.Error(),
		}
	case errors.Is(err, usecase.ErrTweetNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Detail:     DetailNotFound,
		}
	case errors.Is(err, service.ErrInferenceUnavailable):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Detail:     DetailInferenceUnavailable,
		}
	case errors.Is(err, repository.ErrStorage):
		// storage failures carry their cause to the client
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Detail:     storageCause(err),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Detail:     DetailInternal,
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// The original error is attached to the gin context for the access log.
func HandleUsecaseError(c *gin.Context, err error) {
	_ = c.Error(err)
	errResp := MapUsecaseError(err)
	respondError(c, errResp.StatusCode, errResp.Detail)
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// storageCause strips the "storage failure: " prefix added by repositories
func storageCause(err error) string {
	return strings.TrimPrefix(err.Error(), repository.ErrStorage.Error()+": ")
}
