// Package response writes the API's JSON envelopes.
//
// Every successful body is {"data": ...}; list endpoints add page fields.
// Failures are {"error": <status text>, "message": <detail>, "code": <status>}.
// Until the first catalog is published, data endpoints answer 503 with the
// loading envelope and /health answers {"status": "loading"}.
package response

import (
	"encoding/json"
	"net/http"
)

// LoadingMessage is the message of the 503 envelope sent before card data
// is available.
const LoadingMessage = "card data is still loading"

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// SuccessResponse wraps a payload.
type SuccessResponse struct {
	Data any `json:"data"`
}

// PaginatedResponse wraps one page of a list. Page is 1-based.
type PaginatedResponse struct {
	Data       any `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status string `json:"status"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// HTML writes a rendered chart page.
func HTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Success writes data in the success envelope.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, SuccessResponse{Data: data})
}

// Error writes the failure envelope.
func Error(w http.ResponseWriter, status int, err error) {
	JSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	})
}

func BadRequest(w http.ResponseWriter, err error)    { Error(w, http.StatusBadRequest, err) }
func NotFound(w http.ResponseWriter, err error)      { Error(w, http.StatusNotFound, err) }
func InternalError(w http.ResponseWriter, err error) { Error(w, http.StatusInternalServerError, err) }

// Loading writes the 503 envelope for requests that arrive before the
// first catalog is published.
func Loading(w http.ResponseWriter) {
	JSON(w, http.StatusServiceUnavailable, ErrorResponse{
		Error:   http.StatusText(http.StatusServiceUnavailable),
		Message: LoadingMessage,
		Code:    http.StatusServiceUnavailable,
	})
}

// Health writes {"status":"healthy"} or, before data is loaded, a 503
// {"status":"loading"}.
func Health(w http.ResponseWriter, ready bool) {
	if !ready {
		JSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "loading"})
		return
	}
	JSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// PageBounds returns the slice bounds of a 1-based page over total items.
// Pages past the end yield an empty range; page and pageSize below 1 are
// treated as 1.
func PageBounds(page, pageSize, total int) (start, end int) {
	page = max(page, 1)
	pageSize = max(pageSize, 1)
	if page-1 >= (total+pageSize-1)/pageSize {
		return total, total
	}
	start = (page - 1) * pageSize
	return start, min(start+pageSize, total)
}

// Paginated writes one page of a list.
func Paginated(w http.ResponseWriter, data any, page, pageSize, totalCount int) {
	totalPages := 1
	if pageSize > 0 {
		totalPages = max(1, (totalCount+pageSize-1)/pageSize)
	}
	JSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	})
}
