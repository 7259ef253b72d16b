package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolodexd/rolodexd/internal/batch"
	"github.com/rolodexd/rolodexd/internal/store"
)

func TestHTTPErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("fetch: %w", store.ErrNotFound), http.StatusNotFound},
		{"precondition", fmt.Errorf("create: %w", store.ErrPrecondition), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var httpErr *echo.HTTPError
			require.ErrorAs(t, httpError(tc.err), &httpErr)
			assert.Equal(t, tc.code, httpErr.Code)
		})
	}
}

func TestHTTPErrorPartialBatch(t *testing.T) {
	t.Parallel()

	partial := &batch.PartialError{
		FailedChunk: 3,
		TotalChunks: 5,
		Committed:   400,
		Err:         errors.New("connection reset"),
	}

	var httpErr *echo.HTTPError
	require.ErrorAs(t, httpError(fmt.Errorf("update: %w", partial)), &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)

	body, ok := httpErr.Message.(PartialBatchResponse)
	require.True(t, ok)
	assert.Equal(t, 3, body.FailedChunk)
	assert.Equal(t, 5, body.TotalChunks)
	assert.Equal(t, 400, body.Committed)
	assert.Contains(t, body.Message, "chunk 3 of 5")
}
