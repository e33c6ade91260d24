package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ramonehamilton/otherworld-codex/internal/api/response"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/browse"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
	"github.com/ramonehamilton/otherworld-codex/internal/catalog"
	"github.com/ramonehamilton/otherworld-codex/internal/charts"
	"github.com/ramonehamilton/otherworld-codex/internal/stats"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// BrowseHandler serves the card browser: facet options, filtered cards,
// statistics and URL state transitions.
type BrowseHandler struct {
	catalogs CatalogSource
	charts   charts.ChartConfig
}

// NewBrowseHandler creates a new BrowseHandler.
func NewBrowseHandler(catalogs CatalogSource, chartConfig charts.ChartConfig) *BrowseHandler {
	return &BrowseHandler{catalogs: catalogs, charts: chartConfig}
}

// StatChip is one active stat threshold as the browser shows it.
type StatChip struct {
	Stat  cards.StatName `json:"stat"`
	Value string         `json:"value"`
	Label string         `json:"label"`
}

// StateResponse is a parsed browser state with everything needed to draw
// the filter bar.
type StateResponse struct {
	browse.State
	URL     string         `json:"url"`
	Chips   []StatChip     `json:"chips"`
	Offered browse.Offered `json:"offered"`
}

func newStateResponse(cat *catalog.Catalog, s browse.State) StateResponse {
	chips := []StatChip{}
	for _, rule := range cards.Rules() {
		if value, ok := s.Stats[rule.Name]; ok {
			chips = append(chips, StatChip{
				Stat:  rule.Name,
				Value: value,
				Label: browse.StatChipLabel(rule.Name, value),
			})
		}
	}
	return StateResponse{
		State:   s,
		URL:     s.URL(""),
		Chips:   chips,
		Offered: cat.Offer(s.Filters),
	}
}

// GetOptions returns the full option list of every facet.
func (h *BrowseHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	response.Success(w, cat.Options())
}

// GetState parses the query string into a browser state.
func (h *BrowseHandler) GetState(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	response.Success(w, newStateResponse(cat, cat.State(r.URL.RawQuery)))
}

// GetCards returns one page of the cards matching the query string.
func (h *BrowseHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	page, err := intParam(r, "page", 1)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	pageSize, err := intParam(r, "page_size", defaultPageSize)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	pageSize = min(pageSize, maxPageSize)

	matched := cat.Filter(cat.State(r.URL.RawQuery))
	start, end := response.PageBounds(page, pageSize, len(matched))
	response.Paginated(w, matched[start:end], page, pageSize, len(matched))
}

// GetStats aggregates the cards matching the query string. mode is
// "unique" or "total" (the default).
func (h *BrowseHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	mode, err := stats.ParseCountMode(r.URL.Query().Get("mode"))
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	response.Success(w, cat.Summarize(cat.State(r.URL.RawQuery), mode))
}

// GetCharts renders the statistics of the query string as an HTML page.
func (h *BrowseHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	mode, err := stats.ParseCountMode(r.URL.Query().Get("mode"))
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, cat.Summarize(cat.State(r.URL.RawQuery), mode), h.charts); err != nil {
		response.InternalError(w, err)
		return
	}
	response.HTML(w, http.StatusOK, buf.Bytes())
}

// CascadeRequest is a new selection for one facet of the state in Query.
type CascadeRequest struct {
	Query    string             `json:"query"`
	Facet    catalog.Facet      `json:"facet"`
	Selected []hierarchy.Option `json:"selected"`
}

// Cascade applies a facet change and returns the resulting state.
func (h *BrowseHandler) Cascade(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	var req CascadeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	state := cat.State(req.Query)
	filters, err := cat.Change(req.Facet, req.Selected, state.Filters)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	state.Filters = filters
	response.Success(w, newStateResponse(cat, state))
}

// SelectCellRequest is a click on a stat-table cell of the state in Query.
type SelectCellRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Row      string `json:"row"`
	Value    string `json:"value"`
}

// SelectCell adds the clicked cell's threshold and switches to the card
// view. Unknown cells leave the state unchanged.
func (h *BrowseHandler) SelectCell(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	var req SelectCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	state := cat.State(req.Query).SelectCell(req.Category, req.Row, req.Value)
	response.Success(w, newStateResponse(cat, state))
}
