package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/modules/planning"
	"gwplanner/internal/modules/planning/domain"
)

// fakeUpstream serves a 2-club league with a 15-player squad for manager 42
// whose latest picks sit at GW 3.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	elements := make([]fpl.Element, 0, 16)
	mk := func(id, elementType, team int, form string) fpl.Element {
		return fpl.Element{
			ID: id, WebName: fmt.Sprintf("P%d", id), NowCost: 50,
			Form: form, ICTIndex: "10.0", Minutes: 900,
			Team: team, ElementType: elementType, SelectedByPercent: "25.0",
		}
	}
	types := []int{1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 4, 4, 4}
	for i, et := range types {
		id := i + 1
		elements = append(elements, mk(id, et, 1+id%2, fmt.Sprintf("%d.0", 1+id%7)))
	}
	elements = append(elements, mk(99, 3, 2, "9.5"))

	boot := fpl.Bootstrap{
		Events: []fpl.Event{
			{ID: 1, Finished: true}, {ID: 2, Finished: true},
			{ID: 3, IsCurrent: true}, {ID: 4},
		},
		Teams: []fpl.Team{
			{ID: 1, Name: "Home FC", Strength: 3},
			{ID: 2, Name: "Away FC", Strength: 2},
		},
		Elements: elements,
	}
	gw4 := 4
	fixtures := []fpl.Fixture{{ID: 1, Event: &gw4, TeamH: 1, TeamA: 2}}

	picks := make([]fpl.Pick, 0, 15)
	starters := map[int]bool{1: true, 3: true, 4: true, 5: true, 6: true, 8: true, 9: true, 10: true, 13: true, 14: true, 15: true}
	for id := 1; id <= 15; id++ {
		mult := 0
		if starters[id] {
			mult = 1
		}
		picks = append(picks, fpl.Pick{
			Element: id, Position: id, Multiplier: mult,
			IsCaptain: id == 8, IsViceCaptain: id == 9,
		})
	}
	managerPicks := fpl.ManagerPicks{Picks: picks, EntryHistory: fpl.EntryHistory{Bank: 12, Value: 1000}}

	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(boot)
	})
	mux.HandleFunc("/fixtures/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(fixtures)
	})
	mux.HandleFunc("/entry/42/event/3/picks/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(managerPicks)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) *chi.Mux {
	srv := fakeUpstream(t)
	svc := planning.NewService(fpl.NewClient(srv.URL, nil, zerolog.Nop()), zerolog.Nop())
	h := NewHandler(svc, zerolog.Nop())

	r := chi.NewRouter()
	r.Route("/api/tools", h.RegisterRoutes)
	return r
}

func doGet(t *testing.T, router *chi.Mux, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGetGameweekPlanner(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doGet(t, router, "/api/tools/get_gameweek_planner/42/4")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	assert.Equal(t, domain.SchemaVersion, body["schema_version"])
	assert.NotEmpty(t, body["generated_at"])
	assert.NotEmpty(t, body["summary"])

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(42), meta["tid"])
	assert.Equal(t, float64(4), meta["gw"])
	assert.Equal(t, "safe", meta["mode"])
	assert.Equal(t, "latest", meta["picks_strategy"])
	assert.Equal(t, float64(12), meta["bank_used"])
	assert.NotContains(t, meta, "bank_override")

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(4), data["gw"])
	assert.Equal(t, float64(3), data["picks_gw_used"])
	assert.Len(t, data["optimal_start"], 11)
	assert.Len(t, data["optimal_bench"], 4)

	// Transfers are on by default
	assert.NotEmpty(t, body["transfer_suggestions"])

	// Compact responses carry no expanded sections
	assert.NotContains(t, body, "optimal_expanded")
	assert.NotContains(t, body, "actions_expanded")
}

func TestGetGameweekPlannerTransfersOff(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doGet(t, router, "/api/tools/get_gameweek_planner/42/4?include_transfers=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, body, "transfer_suggestions")
}

func TestGetGameweekPlannerExpand(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doGet(t, router, "/api/tools/get_gameweek_planner/42/4?expand=1&include_transfers=1&allow_hit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	optimal := body["optimal_expanded"].([]any)
	require.Len(t, optimal, 11)
	first := optimal[0].(map[string]any)
	player := first["player"].(map[string]any)
	assert.NotEmpty(t, player["name"])
	assert.NotNil(t, first["ep"])

	actions := body["actions"].([]any)
	expanded := body["actions_expanded"].([]any)
	assert.Len(t, expanded, len(actions))

	// The in-form free agent clears the suggestion floor
	suggestions := body["transfer_suggestions"].([]any)
	require.NotEmpty(t, suggestions)
	top := suggestions[0].(map[string]any)
	assert.Equal(t, float64(99), top["in_element"])

	sx := body["transfer_suggestions_expanded"].([]any)
	require.Len(t, sx, len(suggestions))
	assert.Equal(t, "Hot", sx[0].(map[string]any)["in"].(map[string]any)["name"])
}

func TestGetGameweekPlannerModeParam(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doGet(t, router, "/api/tools/get_gameweek_planner/42/4?mode=aggressive")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "aggressive", body["meta"].(map[string]any)["mode"])
}

func TestGetGameweekPlannerBankOverride(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doGet(t, router, "/api/tools/get_gameweek_planner/42/4?bank_override=25")
	require.Equal(t, http.StatusOK, rec.Code)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(25), meta["bank_used"])
	assert.Equal(t, float64(25), meta["bank_override"])

	// Negative overrides fall back to the entry history bank
	rec, body = doGet(t, router, "/api/tools/get_gameweek_planner/42/4?bank_override=-3")
	require.Equal(t, http.StatusOK, rec.Code)
	meta = body["meta"].(map[string]any)
	assert.Equal(t, float64(12), meta["bank_used"])
	assert.NotContains(t, meta, "bank_override")
}

func TestGetGameweekPlannerBadParams(t *testing.T) {
	router := newTestRouter(t)

	cases := []string{
		"/api/tools/get_gameweek_planner/0/4",
		"/api/tools/get_gameweek_planner/abc/4",
		"/api/tools/get_gameweek_planner/42/0",
		"/api/tools/get_gameweek_planner/42/4?mode=yolo",
		"/api/tools/get_gameweek_planner/42/4?picks_strategy=bogus",
		"/api/tools/get_gameweek_planner/42/4?bank_override=ten",
	}
	for _, path := range cases {
		rec, body := doGet(t, router, path)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, path)
		assert.NotEmpty(t, body["error"], path)
	}
}

func TestGetGameweekPlannerUnknownManager(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doGet(t, router, "/api/tools/get_gameweek_planner/7/3?picks_strategy=exact")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, body["error"])
}

func TestGetGameweekPlannerUpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	svc := planning.NewService(fpl.NewClient(srv.URL, nil, zerolog.Nop()), zerolog.Nop())
	h := NewHandler(svc, zerolog.Nop())
	router := chi.NewRouter()
	router.Route("/api/tools", h.RegisterRoutes)

	rec, body := doGet(t, router, "/api/tools/get_gameweek_planner/42/3")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotEmpty(t, body["error"])
}
