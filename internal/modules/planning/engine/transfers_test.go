package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwplanner/internal/modules/planning/domain"
)

func TestSuggestTransfersRankedByGain(t *testing.T) {
	squad := exampleSquad()
	pool := []domain.Player{
		{ID: 100, Position: domain.PositionFWD, EP: 3.0, Cost: 50, Team: 100},
		{ID: 101, Position: domain.PositionMID, EP: 4.5, Cost: 50, Team: 101},
	}

	got := SuggestTransfers(TransferContext{GW: 7, Squad: &squad, Pool: pool, Bank: 0})

	require.Len(t, got, 2)
	// MID 4.5 over the 1.5 EP midfielder (+3.0) outranks FWD 3.0 over 1.0 (+2.0)
	assert.Equal(t, 101, got[0].InPlayer)
	assert.Equal(t, 12, got[0].OutPlayer)
	assert.InDelta(t, 3.0, got[0].DeltaEP, 1e-9)
	assert.Equal(t, 1, got[0].Priority)
	assert.Equal(t, "transfer-7-1", got[0].BundleID)

	assert.Equal(t, 100, got[1].InPlayer)
	assert.Equal(t, 15, got[1].OutPlayer)
	assert.Equal(t, "transfer-7-2", got[1].BundleID)
}

func TestSuggestTransfersBudget(t *testing.T) {
	squad := exampleSquad()
	pool := []domain.Player{
		{ID: 100, Position: domain.PositionFWD, EP: 3.0, Cost: 54, Team: 100},
	}

	// Net cost delta is +4 (0.4m) against an empty bank
	noHit := SuggestTransfers(TransferContext{GW: 1, Squad: &squad, Pool: pool, Bank: 0})
	assert.Empty(t, noHit)

	withHit := SuggestTransfers(TransferContext{GW: 1, Squad: &squad, Pool: pool, Bank: 0, AllowHit: true})
	require.Len(t, withHit, 1)
	assert.Equal(t, 100, withHit[0].InPlayer)

	// One unit past the allowance stays rejected
	pool[0].Cost = 55
	overHit := SuggestTransfers(TransferContext{GW: 1, Squad: &squad, Pool: pool, Bank: 0, AllowHit: true})
	assert.Empty(t, overHit)

	// A bigger bank covers it without any hit
	banked := SuggestTransfers(TransferContext{GW: 1, Squad: &squad, Pool: pool, Bank: 5})
	assert.Len(t, banked, 1)
}

func TestSuggestTransfersCumulativeSpend(t *testing.T) {
	squad := exampleSquad()
	// Two upgrades each costing +3; a bank of 4 can afford only the first
	pool := []domain.Player{
		{ID: 100, Position: domain.PositionFWD, EP: 5.0, Cost: 53, Team: 100},
		{ID: 101, Position: domain.PositionMID, EP: 4.0, Cost: 53, Team: 101},
	}

	got := SuggestTransfers(TransferContext{GW: 1, Squad: &squad, Pool: pool, Bank: 4})

	require.Len(t, got, 1)
	assert.Equal(t, 100, got[0].InPlayer, "bigger gain applies first and exhausts the bank")
}

func TestSuggestTransfersTeamCap(t *testing.T) {
	squad := exampleSquad()
	// Three squad players already belong to club 40
	squad.Players[2].Team = 40
	squad.Players[3].Team = 40
	squad.Players[8].Team = 40

	pool := []domain.Player{
		{ID: 100, Position: domain.PositionFWD, EP: 5.0, Cost: 50, Team: 40},
	}

	got := SuggestTransfers(TransferContext{GW: 1, Squad: &squad, Pool: pool, Bank: 10})
	assert.Empty(t, got, "a fourth player from the same club is illegal")

	// Replacing a player of that same club keeps the count at three
	squad.Players[14].Team = 40 // FWD id 15, EP 1.0
	squad.Players[8].Team = 9
	got = SuggestTransfers(TransferContext{GW: 1, Squad: &squad, Pool: pool, Bank: 10})
	require.Len(t, got, 1)
	assert.Equal(t, 15, got[0].OutPlayer)
}

func TestSuggestTransfersNoDowngrades(t *testing.T) {
	squad := exampleSquad()
	pool := []domain.Player{
		{ID: 100, Position: domain.PositionFWD, EP: 0.5, Cost: 40, Team: 100},
	}

	got := SuggestTransfers(TransferContext{GW: 1, Squad: &squad, Pool: pool, Bank: 100})
	assert.Empty(t, got)
}

func TestSuggestTransfersCapsSuggestionCount(t *testing.T) {
	squad := exampleSquad()
	pool := make([]domain.Player, 0, 6)
	for i := 0; i < 6; i++ {
		pool = append(pool, domain.Player{
			ID: 100 + i, Position: domain.PositionMID, EP: 9.0 - float64(i)*0.1,
			Cost: 50, Team: 200 + i,
		})
	}

	got := SuggestTransfers(TransferContext{GW: 1, Squad: &squad, Pool: pool, Bank: 0})
	assert.Len(t, got, 3)
}
