// Package handlers exposes the gameweek planner over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/modules/planning"
	"gwplanner/internal/modules/planning/domain"
)

// Handler serves planner endpoints
type Handler struct {
	service *planning.Service
	log     zerolog.Logger
}

// NewHandler creates a planner handler
func NewHandler(service *planning.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("module", "planning_handlers").Logger(),
	}
}

// GetGameweekPlanner handles GET /api/tools/get_gameweek_planner/{tid}/{gw}
func (h *Handler) GetGameweekPlanner(w http.ResponseWriter, r *http.Request) {
	tid, err := strconv.Atoi(chi.URLParam(r, "tid"))
	if err != nil || tid <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "tid must be a positive integer")
		return
	}
	gw, err := strconv.Atoi(chi.URLParam(r, "gw"))
	if err != nil || gw < 1 {
		writeError(w, http.StatusUnprocessableEntity, "gw must be a positive integer")
		return
	}

	q := r.URL.Query()

	mode, err := domain.ParseMode(q.Get("mode"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	strategy, err := planning.ParsePicksStrategy(q.Get("picks_strategy"))
	if err != nil {
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

	params := planning.PlanParams{
		TID:              tid,
		GW:               gw,
		Mode:             mode,
		IncludeTransfers: q.Get("include_transfers") != "0",
		AllowHit:         q.Get("allow_hit") == "1",
		BankOverride:     bankOverride,
		PicksStrategy:    strategy,
	}

	outcome, err := h.service.PlanGameweek(r.Context(), params)
	if err != nil {
		h.log.Error().Err(err).Int("tid", tid).Int("gw", gw).Msg("Planning failed")
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := buildResponse(params, outcome)
	if q.Get("expand") == "1" {
		expandResponse(resp, outcome)
	}
	writeJSON(w, http.StatusOK, resp)
}

// buildResponse assembles the compact envelope from a plan outcome
func buildResponse(params planning.PlanParams, outcome *planning.PlanOutcome) *PlannerResponse {
	result := outcome.Result

	meta := PlannerMeta{
		TID:           params.TID,
		GW:            params.GW,
		Mode:          string(params.Mode),
		AllowHit:      params.AllowHit,
		BankUsed:      result.BankUsed,
		PicksStrategy: string(params.PicksStrategy),
	}
	if result.BankOverrideApplied && params.BankOverride != nil {
		meta.BankOverride = params.BankOverride
	}

	return &PlannerResponse{
		SchemaVersion: domain.SchemaVersion,
		GeneratedAt:   time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		Meta:          meta,
		Data: PlannerData{
			GW:               result.GW,
			PicksGWUsed:      outcome.PicksGWUsed,
			FormationCurrent: result.FormationCurrent,
			FormationOptimal: result.FormationOptimal,
			CurrentStart:     result.CurrentStart,
			CurrentBench:     result.CurrentBench,
			OptimalStart:     result.OptimalStart,
			OptimalBench:     result.OptimalBench,
			Captain:          result.Captain,
			ViceCaptain:      result.ViceCaptain,
			EPTotalCurrent:   result.EPTotalCurrent,
			EPTotalOptimal:   result.EPTotalOptimal,
			EPGainLineup:     result.EPGainLineup,
			BenchEPTotal:     result.BenchEPTotal,
			ChipEval:         result.ChipEvaluation,
			PerPlayerEP:      result.PerPlayerEP,
		},
		Actions:             result.Actions,
		Summary:             result.Summary,
		SummaryLong:         result.SummaryLong,
		TransferSuggestions: pruneTransfers(result.TransferSuggestions),
	}
}

// statusFor maps planning errors to HTTP status codes
func statusFor(err error) int {
	var composition *domain.InvalidSquadCompositionError
	var noFormation *domain.NoLegalFormationError
	var insufficient *domain.InsufficientDataError
	switch {
	case errors.As(err, &composition),
		errors.As(err, &noFormation),
		errors.As(err, &insufficient):
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
