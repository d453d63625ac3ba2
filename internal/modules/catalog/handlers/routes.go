package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the raw-data endpoints on the tools router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/get_bootstrap_data", h.GetBootstrapData)
	r.Get("/get_fixtures", h.GetFixtures)
	r.Get("/get_fixtures_by_gw/{gw}", h.GetFixturesByGW)
	r.Get("/get_manager_picks/{tid}/{gw}", h.GetManagerPicks)
	r.Get("/get_names_index", h.GetNamesIndex)
}
