package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rolodexd/rolodexd/internal/batch"
	"github.com/rolodexd/rolodexd/internal/store"
)

// ErrorResponse is the standard API error body (message only).
type ErrorResponse struct {
	Message string `json:"message"`
}

// PartialBatchResponse reports a batch that failed midway: everything before
// the failed chunk is committed.
type PartialBatchResponse struct {
	Message     string `json:"message"`
	FailedChunk int    `json:"failedChunk"`
	TotalChunks int    `json:"totalChunks"`
	Committed   int    `json:"committed"`
}

// httpError translates domain errors into echo HTTP errors.
func httpError(err error) error {
	var partial *batch.PartialError
	switch {
	case errors.As(err, &partial):
		return echo.NewHTTPError(http.StatusInternalServerError, PartialBatchResponse{
			Message:     partial.Error(),
			FailedChunk: partial.FailedChunk,
			TotalChunks: partial.TotalChunks,
			Committed:   partial.Committed,
		})
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.Is(err, store.ErrPrecondition):
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
	}
}
