package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the insight endpoints on the tools router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/get_manager_gameweek_summary/{tid}/{gw}", h.GetGameweekSummary)
	r.Get("/get_manager_gameweek_analysis/{tid}/{gw}", h.GetGameweekAnalysis)
}
