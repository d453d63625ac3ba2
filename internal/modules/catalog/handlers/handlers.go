// Package handlers exposes the raw-data tool endpoints: bootstrap, fixtures,
// manager picks and the names index.
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
	"gwplanner/internal/modules/projections"
)

// Handler serves the raw-data tool endpoints
type Handler struct {
	client *fpl.Client
	log    zerolog.Logger
}

// NewHandler creates a catalog handler
func NewHandler(client *fpl.Client, log zerolog.Logger) *Handler {
	return &Handler{
		client: client,
		log:    log.With().Str("module", "catalog_handlers").Logger(),
	}
}

// bootstrapData is the slim bootstrap view
type bootstrapData struct {
	Events  []fpl.Event         `json:"events"`
	Teams   []fpl.Team          `json:"teams"`
	Players []catalog.PlayerRef `json:"players"`
}

// GetBootstrapData handles GET /api/tools/get_bootstrap_data
func (h *Handler) GetBootstrapData(w http.ResponseWriter, r *http.Request) {
	boot, err := h.client.Bootstrap(r.Context())
	if err != nil {
		h.fail(w, err, "Bootstrap fetch failed")
		return
	}
	cat := catalog.New(boot)

	data := bootstrapData{
		Events:  boot.Events,
		Teams:   boot.Teams,
		Players: make([]catalog.PlayerRef, 0, len(boot.Elements)),
	}
	for _, el := range boot.Elements {
		data.Players = append(data.Players, cat.PlayerRef(el.ID))
	}
	writeJSON(w, http.StatusOK, data)
}

// GetFixtures handles GET /api/tools/get_fixtures
func (h *Handler) GetFixtures(w http.ResponseWriter, r *http.Request) {
	fixtures, err := h.client.Fixtures(r.Context())
	if err != nil {
		h.fail(w, err, "Fixtures fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, fixtures)
}

// GetFixturesByGW handles GET /api/tools/get_fixtures_by_gw/{gw}
func (h *Handler) GetFixturesByGW(w http.ResponseWriter, r *http.Request) {
	gw, err := strconv.Atoi(chi.URLParam(r, "gw"))
	if err != nil || gw < 1 {
		writeError(w, http.StatusUnprocessableEntity, "gw must be a positive integer")
		return
	}
	fixtures, err := h.client.FixturesByGW(r.Context(), gw)
	if err != nil {
		h.fail(w, err, "Fixtures fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, fixtures)
}

// pickExpanded is one pick with player and fixture context denormalized
type pickExpanded struct {
	fpl.Pick
	Player  catalog.PlayerRef       `json:"player"`
	Fixture *catalog.FixtureContext `json:"fixture,omitempty"`
}

type managerPicksResponse struct {
	*fpl.ManagerPicks
	PicksExpanded []pickExpanded `json:"picks_expanded,omitempty"`
}

// GetManagerPicks handles GET /api/tools/get_manager_picks/{tid}/{gw}
func (h *Handler) GetManagerPicks(w http.ResponseWriter, r *http.Request) {
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

	picks, err := h.client.ManagerPicks(r.Context(), tid, gw)
	if err != nil {
		h.fail(w, err, "Picks fetch failed")
		return
	}

	resp := managerPicksResponse{ManagerPicks: picks}
	if r.URL.Query().Get("expand") == "1" {
		boot, err := h.client.Bootstrap(r.Context())
		if err != nil {
			h.fail(w, err, "Bootstrap fetch failed")
			return
		}
		fixtures, err := h.client.FixturesByGW(r.Context(), gw)
		if err != nil {
			h.fail(w, err, "Fixtures fetch failed")
			return
		}
		cat := catalog.New(boot)
		byTeam := projections.TeamFixtures(fixtures, boot.Teams)

		for _, pick := range picks.Picks {
			entry := pickExpanded{Pick: pick, Player: cat.PlayerRef(pick.Element)}
			if el, ok := cat.Element(pick.Element); ok {
				if refs := byTeam[el.Team]; len(refs) > 0 {
					ctx := cat.FixtureContext(refs[0])
					entry.Fixture = &ctx
				}
			}
			resp.PicksExpanded = append(resp.PicksExpanded, entry)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetNamesIndex handles GET /api/tools/get_names_index
func (h *Handler) GetNamesIndex(w http.ResponseWriter, r *http.Request) {
	boot, err := h.client.Bootstrap(r.Context())
	if err != nil {
		h.fail(w, err, "Bootstrap fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, catalog.New(boot).NamesIndex())
}

func (h *Handler) fail(w http.ResponseWriter, err error, msg string) {
	h.log.Error().Err(err).Msg(msg)
	if errors.Is(err, fpl.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
