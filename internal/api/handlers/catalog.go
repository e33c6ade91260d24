package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/otherworld-codex/internal/api/response"
)

// CatalogHandler serves campaigns, scenarios, encounter sets and cards.
type CatalogHandler struct {
	catalogs CatalogSource
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogs CatalogSource) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs}
}

// GetCampaigns lists every campaign in configured order.
func (h *CatalogHandler) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	response.Success(w, cat.Index().Campaigns())
}

// GetCampaign returns one campaign with its scenarios.
func (h *CatalogHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	campaign, err := cat.Campaign(chi.URLParam(r, "code"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	response.Success(w, campaign)
}

// GetScenario returns one scenario with its encounter sets.
func (h *CatalogHandler) GetScenario(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	scenario, err := cat.Scenario(chi.URLParam(r, "code"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	response.Success(w, scenario)
}

// GetEncounter returns one encounter set with its cards.
func (h *CatalogHandler) GetEncounter(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	encounter, err := cat.Encounter(chi.URLParam(r, "code"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	response.Success(w, encounter)
}

// GetCard returns one card with its relations.
func (h *CatalogHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	card, err := cat.Card(chi.URLParam(r, "code"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	response.Success(w, card)
}
