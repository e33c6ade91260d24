package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/otherworld-codex/internal/api/handlers"
	"github.com/ramonehamilton/otherworld-codex/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		browseHandler := handlers.NewBrowseHandler(s.catalogs, s.charts)
		r.Route("/browse", func(r chi.Router) {
			r.Get("/options", browseHandler.GetOptions)
			r.Get("/state", browseHandler.GetState)
			r.Get("/cards", browseHandler.GetCards)
			r.Get("/stats", browseHandler.GetStats)
			r.Get("/charts", browseHandler.GetCharts)
			r.Post("/cascade", browseHandler.Cascade)
			r.Post("/select-cell", browseHandler.SelectCell)
		})

		catalogHandler := handlers.NewCatalogHandler(s.catalogs)
		r.Get("/campaigns", catalogHandler.GetCampaigns)
		r.Get("/campaigns/{code}", catalogHandler.GetCampaign)
		r.Get("/scenarios/{code}", catalogHandler.GetScenario)
		r.Get("/encounters/{code}", catalogHandler.GetEncounter)
		r.Get("/cards/{code}", catalogHandler.GetCard)

		searchHandler := handlers.NewSearchHandler(s.searcher)
		r.Get("/search", searchHandler.Search)

		systemHandler := handlers.NewSystemHandler(s.catalogs, s.metrics)
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", systemHandler.GetStatus)
			r.Get("/metrics", systemHandler.GetMetrics)
		})
	})
}

// healthCheck reports whether card data is being served.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.Health(w, s.catalogs != nil && s.catalogs.Load() != nil)
}
