package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ramonehamilton/otherworld-codex/internal/api/response"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// SearchHandler serves full-text search.
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search matches q against cards, packs, campaigns, scenarios, encounter
// sets and traits. limit defaults to 20 and may not exceed 100.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.BadRequest(w, errors.New("query parameter q is required"))
		return
	}
	limit, err := intParam(r, "limit", defaultSearchLimit)
	if err != nil || limit > maxSearchLimit {
		response.BadRequest(w, errors.New("limit must be between 1 and 100"))
		return
	}

	results, err := h.searcher.Search(r.Context(), query, limit)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, results)
}
