package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/sentimeter/internal/batch"
	"github.com/spacesedan/sentimeter/internal/sentiment"
	"github.com/spacesedan/sentimeter/internal/service"
)

type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapError maps service and domain errors to HTTP error responses.
func MapError(err error) ErrorResponse {
	switch {
	case errors.Is(err, sentiment.ErrModelUnavailable):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Code:       "MODEL_UNAVAILABLE",
			Message:    "sentiment model is not available",
		}
	case errors.Is(err, sentiment.ErrAnalysis):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "ANALYSIS_ERROR",
			Message:    err.Error(),
		}
	case errors.Is(err, batch.ErrColumnNotFound):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "CSV_PROCESSING_ERROR",
			Message:    err.Error(),
		}
	case errors.Is(err, batch.ErrCSVRead):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "CSV_PROCESSING_ERROR",
			Message:    "failed to read the CSV file",
		}
	case errors.Is(err, service.ErrNoValidText):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "NO_VALID_TEXT",
			Message:    err.Error(),
		}
	case errors.Is(err, service.ErrInvalidFile):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_FILE",
			Message:    err.Error(),
		}
	case errors.Is(err, service.ErrEmptyText):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    err.Error(),
		}
	case errors.Is(err, service.ErrStorageUnavailable):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Code:       "STORAGE_UNAVAILABLE",
			Message:    err.Error(),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	resp := MapError(err)
	respondError(c, resp.StatusCode, resp.Code, resp.Message)
}

func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}
