package planning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/modules/planning/domain"
)

// testUpstream fakes the FPL API: a 2-club league with a 15-player squad
// for manager 42, whose latest picks are at GW 3.
type testUpstream struct {
	picksByGW map[int]fpl.ManagerPicks
}

func newTestUpstream() *testUpstream {
	picks := make([]fpl.Pick, 0, 15)
	starters := map[int]bool{1: true, 3: true, 4: true, 5: true, 6: true, 8: true, 9: true, 10: true, 13: true, 14: true, 15: true}
	for id := 1; id <= 15; id++ {
		mult := 0
		if starters[id] {
			mult = 1
		}
		picks = append(picks, fpl.Pick{
			Element:       id,
			Position:      id,
			Multiplier:    mult,
			IsCaptain:     id == 8,
			IsViceCaptain: id == 9,
		})
	}
	return &testUpstream{
		picksByGW: map[int]fpl.ManagerPicks{
			3: {Picks: picks, EntryHistory: fpl.EntryHistory{Bank: 12, Value: 1000}},
		},
	}
}

func (u *testUpstream) serve(t *testing.T) *httptest.Server {
	t.Helper()

	elements := make([]fpl.Element, 0, 16)
	mk := func(id, elementType, team int, form string) fpl.Element {
		return fpl.Element{
			ID: id, WebName: fmt.Sprintf("P%d", id), NowCost: 50,
			Form: form, ICTIndex: "10.0", Minutes: 900,
			Team: team, ElementType: elementType, SelectedByPercent: "25.0",
		}
	}
	// 2 GK, 5 DEF, 5 MID, 3 FWD split across both clubs
	types := []int{1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 4, 4, 4}
	for i, et := range types {
		id := i + 1
		elements = append(elements, mk(id, et, 1+id%2, fmt.Sprintf("%d.0", 1+id%7)))
	}
	// One strong free agent midfielder outside the squad
	elements = append(elements, mk(99, 3, 2, "9.5"))

	boot := fpl.Bootstrap{
		Events: []fpl.Event{
			{ID: 1, Finished: true}, {ID: 2, Finished: true},
			{ID: 3, IsCurrent: true}, {ID: 4}, {ID: 5},
		},
		Teams: []fpl.Team{
			{ID: 1, Name: "Home FC", Strength: 3},
			{ID: 2, Name: "Away FC", Strength: 2},
		},
		Elements: elements,
	}
	gw4 := 4
	fixtures := []fpl.Fixture{{ID: 1, Event: &gw4, TeamH: 1, TeamA: 2}}

	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(boot)
	})
	mux.HandleFunc("/fixtures/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(fixtures)
	})
	mux.HandleFunc("/entry/42/event/", func(w http.ResponseWriter, r *http.Request) {
		var gw int
		if _, err := fmt.Sscanf(r.URL.Path, "/entry/42/event/%d/picks/", &gw); err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		picks, ok := u.picksByGW[gw]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(picks)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(t *testing.T) *Service {
	srv := newTestUpstream().serve(t)
	return NewService(fpl.NewClient(srv.URL, nil, zerolog.Nop()), zerolog.Nop())
}

func TestPlanGameweekLatestWalksBack(t *testing.T) {
	svc := newTestService(t)

	// Planning GW 4 with latest strategy falls back to the GW 3 squad
	outcome, err := svc.PlanGameweek(context.Background(), PlanParams{
		TID: 42, GW: 4, Mode: domain.ModeSafe, PicksStrategy: PicksLatest,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.PicksGWUsed)
	assert.Equal(t, 4, outcome.Result.GW)
	assert.NotEmpty(t, outcome.Result.Actions)
	assert.Equal(t, 12, outcome.Result.BankUsed)
	require.NotNil(t, outcome.Catalog)

	// Every planned player got a projection against the GW 4 fixture
	assert.Len(t, outcome.Result.PerPlayerEP, 15)
}

func TestPlanGameweekExactRequiresTargetPicks(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.PlanGameweek(context.Background(), PlanParams{
		TID: 42, GW: 4, Mode: domain.ModeSafe, PicksStrategy: PicksExact,
	})
	assert.ErrorIs(t, err, fpl.ErrNotFound)

	outcome, err := svc.PlanGameweek(context.Background(), PlanParams{
		TID: 42, GW: 3, Mode: domain.ModeSafe, PicksStrategy: PicksExact,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.PicksGWUsed)
}

func TestPlanGameweekUnknownManager(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.PlanGameweek(context.Background(), PlanParams{
		TID: 7, GW: 3, Mode: domain.ModeSafe, PicksStrategy: PicksExact,
	})
	assert.ErrorIs(t, err, fpl.ErrNotFound)
}

func TestPlanGameweekTransfersUsePool(t *testing.T) {
	svc := newTestService(t)

	outcome, err := svc.PlanGameweek(context.Background(), PlanParams{
		TID: 42, GW: 4, Mode: domain.ModeSafe,
		IncludeTransfers: true, AllowHit: true,
		PicksStrategy: PicksLatest,
	})
	require.NoError(t, err)

	require.NotEmpty(t, outcome.Result.TransferSuggestions)
	// The in-form free agent (element 99) is the headline upgrade
	assert.Equal(t, 99, outcome.Result.TransferSuggestions[0].InPlayer)
}

func TestParsePicksStrategy(t *testing.T) {
	s, err := ParsePicksStrategy("")
	require.NoError(t, err)
	assert.Equal(t, PicksLatest, s)

	s, err = ParsePicksStrategy("exact")
	require.NoError(t, err)
	assert.Equal(t, PicksExact, s)

	_, err = ParsePicksStrategy("bogus")
	assert.Error(t, err)
}

func TestResolvePicksNoLiveGW(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(fpl.Bootstrap{Events: []fpl.Event{{ID: 1}, {ID: 2}}})
	})
	mux.HandleFunc("/fixtures/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]fpl.Fixture{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := NewService(fpl.NewClient(srv.URL, nil, zerolog.Nop()), zerolog.Nop())
	_, err := svc.PlanGameweek(context.Background(), PlanParams{
		TID: 42, GW: 1, Mode: domain.ModeSafe, PicksStrategy: PicksLatest,
	})
	assert.True(t, errors.Is(err, ErrNoLiveGW))
}
