package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/modules/planning/domain"
)

func testBootstrap() *fpl.Bootstrap {
	return &fpl.Bootstrap{
		Events: []fpl.Event{
			{ID: 1, Finished: true},
			{ID: 2, Finished: true},
			{ID: 3, IsCurrent: true},
			{ID: 4},
		},
		Teams: []fpl.Team{
			{ID: 1, Name: "Arsenal", Strength: 4},
			{ID: 2, Name: "Brentford", Strength: 3},
		},
		Elements: []fpl.Element{
			{ID: 381, WebName: "Saka", Team: 1, ElementType: 3, NowCost: 86, SelectedByPercent: "44.1"},
			{ID: 500, WebName: "Raya", Team: 1, ElementType: 1, NowCost: 55, SelectedByPercent: "12.0"},
		},
	}
}

func TestPlayerRef(t *testing.T) {
	c := New(testBootstrap())

	ref := c.PlayerRef(381)
	assert.Equal(t, "Saka", ref.Name)
	assert.Equal(t, 1, ref.TeamID)
	assert.Equal(t, "Arsenal", ref.TeamName)
	assert.Equal(t, "MID", ref.Position)
	assert.Equal(t, 86, ref.NowCost)
	assert.Equal(t, 44.1, ref.OwnershipPct)
}

func TestPlayerRefUnknownID(t *testing.T) {
	c := New(testBootstrap())

	ref := c.PlayerRef(999)
	assert.Equal(t, 999, ref.ID)
	assert.Empty(t, ref.Name)
}

func TestFixtureContext(t *testing.T) {
	c := New(testBootstrap())

	ctx := c.FixtureContext(domain.FixtureRef{OpponentTeamID: 2, OpponentStrength: 3, WasHome: true})
	assert.Equal(t, "Brentford", ctx.OpponentTeamName)
	assert.Equal(t, 3, ctx.OpponentStrength)
	assert.True(t, ctx.WasHome)
}

func TestNamesIndex(t *testing.T) {
	c := New(testBootstrap())

	idx := c.NamesIndex()
	require.Contains(t, idx.Players, 381)
	assert.Equal(t, "Saka", idx.Players[381].Name)
	assert.Equal(t, "Arsenal", idx.Players[381].TeamName)
	assert.Equal(t, "GK", idx.Players[500].Position)
	assert.Equal(t, "Brentford", idx.Teams[2])
}

func TestCurrentAndLastLiveGW(t *testing.T) {
	c := New(testBootstrap())

	cur, ok := c.CurrentGW()
	require.True(t, ok)
	assert.Equal(t, 3, cur)

	last, ok := c.LastLiveGW()
	require.True(t, ok)
	assert.Equal(t, 3, last)
}

func TestLastLiveGWNoLiveEvents(t *testing.T) {
	c := New(&fpl.Bootstrap{Events: []fpl.Event{{ID: 1}, {ID: 2}}})

	_, ok := c.LastLiveGW()
	assert.False(t, ok)
}

func TestOwnership(t *testing.T) {
	c := New(testBootstrap())
	assert.Equal(t, 44.1, c.Ownership(381))
	assert.Equal(t, 0.0, c.Ownership(999))
}
