package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ramonehamilton/otherworld-codex/internal/api/response"
	"github.com/ramonehamilton/otherworld-codex/internal/catalog"
	"github.com/ramonehamilton/otherworld-codex/internal/storage/repository"
)

// CatalogSource yields the catalog currently being served.
type CatalogSource interface {
	Load() *catalog.Catalog
}

// Searcher runs full-text queries.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]repository.SearchRow, error)
}

// current writes the loading envelope and returns false until a catalog
// is published.
func current(w http.ResponseWriter, src CatalogSource) (*catalog.Catalog, bool) {
	cat := src.Load()
	if cat == nil {
		response.Loading(w)
		return nil, false
	}
	return cat, true
}

// intParam reads a positive integer query parameter, def when absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return n, nil
}

// writeLookupError maps catalog.ErrNotFound to 404.
func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		response.NotFound(w, err)
		return
	}
	response.InternalError(w, err)
}
