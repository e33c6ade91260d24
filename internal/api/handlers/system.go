package handlers

import (
	"net/http"
	"time"

	"github.com/ramonehamilton/otherworld-codex/internal/api/response"
	"github.com/ramonehamilton/otherworld-codex/internal/metrics"
	"github.com/ramonehamilton/otherworld-codex/internal/version"
)

// SystemHandler serves version, data and server metrics information.
type SystemHandler struct {
	catalogs CatalogSource
	metrics  *metrics.ServerMetrics
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(catalogs CatalogSource, m *metrics.ServerMetrics) *SystemHandler {
	return &SystemHandler{catalogs: catalogs, metrics: m}
}

// Status describes the served build and data.
type Status struct {
	Version       string    `json:"version"`
	Cards         int       `json:"cards"`
	Campaigns     int       `json:"campaigns"`
	EncounterSets int       `json:"encounter_sets"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// GetStatus returns the build version and the size of the loaded data.
func (h *SystemHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	cat, ok := current(w, h.catalogs)
	if !ok {
		return
	}
	response.Success(w, Status{
		Version:       version.String(),
		Cards:         cat.Corpus().Len(),
		Campaigns:     len(cat.Index().Campaigns()),
		EncounterSets: len(cat.Index().EncounterSets()),
		LoadedAt:      cat.BuiltAt,
	})
}

// GetMetrics returns request latency and reload counters.
func (h *SystemHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.metrics.GetStats())
}
