package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the planner endpoints on the tools router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/get_gameweek_planner/{tid}/{gw}", h.GetGameweekPlanner)
}
