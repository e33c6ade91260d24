package response

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name                  string
		page, pageSize, total int
		wantStart, wantEnd    int
	}{
		{"first page", 1, 10, 25, 0, 10},
		{"last partial page", 3, 10, 25, 20, 25},
		{"past the end", 4, 10, 25, 25, 25},
		{"empty list", 1, 10, 0, 0, 0},
		{"huge page does not overflow", math.MaxInt, 500, 25, 25, 25},
		{"zero page size treated as one", 2, 0, 3, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PageBounds(tt.page, tt.pageSize, tt.total)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestLoading(t *testing.T) {
	rec := httptest.NewRecorder()
	Loading(rec)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Error: "Service Unavailable", Message: LoadingMessage, Code: 503}, body)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"loading"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Health(rec, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestErrorAndPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, errors.New("card 99999 not found"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found","message":"card 99999 not found","code":404}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Paginated(rec, []int{1, 2}, 1, 2, 5)
	var page PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
