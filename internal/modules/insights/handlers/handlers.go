// Package handlers exposes the manager insight endpoints over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/modules/catalog"
	"gwplanner/internal/modules/insights"
	"gwplanner/internal/modules/planning/domain"
)

// Handler serves insight endpoints
type Handler struct {
	service *insights.Service
	log     zerolog.Logger
}

// NewHandler creates an insights handler
func NewHandler(service *insights.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("module", "insights_handlers").Logger(),
	}
}

// PickExpanded is a pick note with the player denormalized
type PickExpanded struct {
	Player        catalog.PlayerRef `json:"player"`
	IsCaptain     bool              `json:"is_captain"`
	IsViceCaptain bool              `json:"is_vice_captain"`
}

// CaptainExpanded is a captain candidate with the player denormalized
type CaptainExpanded struct {
	Player catalog.PlayerRef `json:"player"`
	Score  float64           `json:"score"`
}

type summaryResponse struct {
	*insights.Summary
	PicksExpanded             []PickExpanded    `json:"picks_expanded,omitempty"`
	CaptainCandidatesExpanded []CaptainExpanded `json:"captain_candidates_expanded,omitempty"`
}

type analysisResponse struct {
	*insights.Analysis
	CaptainSafeExpanded       *CaptainExpanded `json:"recommended_captain_safe_expanded,omitempty"`
	CaptainAggressiveExpanded *CaptainExpanded `json:"recommended_captain_aggressive_expanded,omitempty"`
}

// GetGameweekSummary handles GET /api/tools/get_manager_gameweek_summary/{tid}/{gw}
func (h *Handler) GetGameweekSummary(w http.ResponseWriter, r *http.Request) {
	tid, gw, ok := pathParams(w, r)
	if !ok {
		return
	}

	summary, cat, err := h.service.GameweekSummary(r.Context(), tid, gw)
	if err != nil {
		h.log.Error().Err(err).Int("tid", tid).Int("gw", gw).Msg("Summary failed")
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := summaryResponse{Summary: summary}
	if r.URL.Query().Get("expand") == "1" {
		for _, pick := range summary.Picks {
			resp.PicksExpanded = append(resp.PicksExpanded, PickExpanded{
				Player:        cat.PlayerRef(pick.Element),
				IsCaptain:     pick.IsCaptain,
				IsViceCaptain: pick.IsViceCaptain,
			})
		}
		for _, c := range summary.CaptainCandidates {
			resp.CaptainCandidatesExpanded = append(resp.CaptainCandidatesExpanded, CaptainExpanded{
				Player: cat.PlayerRef(c.Element),
				Score:  c.Score,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetGameweekAnalysis handles GET /api/tools/get_manager_gameweek_analysis/{tid}/{gw}
func (h *Handler) GetGameweekAnalysis(w http.ResponseWriter, r *http.Request) {
	tid, gw, ok := pathParams(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	// The analysis always reports both captaincy modes; the flag is
	// accepted for parity with the planner and validated here.
	if _, err := domain.ParseMode(q.Get("mode")); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var bankOverride *int
	if raw := q.Get("bank_override"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "bank_override must be an integer")
			return
		}
		bankOverride = &v
	}

	analysis, cat, err := h.service.GameweekAnalysis(r.Context(), tid, gw, q.Get("allow_hit") == "1", bankOverride)
	if err != nil {
		h.log.Error().Err(err).Int("tid", tid).Int("gw", gw).Msg("Analysis failed")
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := analysisResponse{Analysis: analysis}
	if q.Get("expand") == "1" {
		if c := analysis.RecommendedCaptainSafe; c.Element != 0 {
			resp.CaptainSafeExpanded = &CaptainExpanded{Player: cat.PlayerRef(c.Element), Score: c.Score}
		}
		if c := analysis.RecommendedCaptainAggressive; c.Element != 0 {
			resp.CaptainAggressiveExpanded = &CaptainExpanded{Player: cat.PlayerRef(c.Element), Score: c.Score}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func pathParams(w http.ResponseWriter, r *http.Request) (tid, gw int, ok bool) {
	tid, err := strconv.Atoi(chi.URLParam(r, "tid"))
	if err != nil || tid <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "tid must be a positive integer")
		return 0, 0, false
	}
	gw, err = strconv.Atoi(chi.URLParam(r, "gw"))
	if err != nil || gw < 1 {
		writeError(w, http.StatusUnprocessableEntity, "gw must be a positive integer")
		return 0, 0, false
	}
	return tid, gw, true
}

func statusFor(err error) int {
	var insufficient *domain.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fpl.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
