// Package projections computes deterministic expected-points (EP) estimates
// from public FPL fields: form, ICT index, season minutes and the opponent's
// strength rating. The model is a heuristic, not a trained predictor; the
// value is that identical inputs always produce identical plans.
package projections

import (
	"math"
	"strconv"

	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/modules/planning/domain"
)

const (
	// Season minutes are capped to approximate the last two gameweeks
	maxRecentMinutes = 180.0

	// Minutes sustainability midpoint and spread for the sigmoid
	minutesMidpoint = 120.0
	minutesSpread   = 60.0

	epScale    = 6.0
	formWeight = 0.6
	ictWeight  = 0.4

	formCeiling = 10.0
	ictCeiling  = 20.0

	// Multi-fixture gameweeks get a flat bonus on the summed EP
	doubleGWBonus = 1.1

	// Strength used when the opponent's rating is unknown
	neutralStrength = 3
)

// ParseStat parses FPL's string-typed numeric fields (form, ict_index,
// selected_by_percent), treating empty or malformed values as zero.
func ParseStat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func norm(x, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	v := (x - lo) / (hi - lo)
	return math.Max(0, math.Min(1, v))
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// ExpectedPoints estimates a player's EP against one opponent.
// Higher strength numbers are weaker opposition, so the opponent factor
// rises toward 1 for the easiest fixtures.
func ExpectedPoints(el fpl.Element, opponentStrength int) float64 {
	formN := norm(ParseStat(el.Form), 0, formCeiling)
	ictN := norm(ParseStat(el.ICTIndex), 0, ictCeiling)
	mix := formWeight*formN + ictWeight*ictN

	recentMinutes := math.Min(float64(el.Minutes), maxRecentMinutes)
	m := sigmoid((recentMinutes - minutesMidpoint) / minutesSpread)

	d := norm(float64(opponentStrength), 5, 1)

	return epScale * mix * m * d
}

// ForFixtures sums ExpectedPoints over a player's fixtures for one gameweek,
// applying the double-gameweek bonus when there is more than one fixture.
// Zero fixtures (blank gameweek) yields zero EP.
func ForFixtures(el fpl.Element, fixtures []domain.FixtureRef) float64 {
	total := 0.0
	for _, fx := range fixtures {
		strength := fx.OpponentStrength
		if strength == 0 {
			strength = neutralStrength
		}
		total += ExpectedPoints(el, strength)
	}
	if len(fixtures) > 1 {
		total *= doubleGWBonus
	}
	return total
}

// TeamFixtures indexes a gameweek's fixtures per team, each entry seen from
// that team's perspective (opponent id, opponent strength, home flag).
func TeamFixtures(fixtures []fpl.Fixture, teams []fpl.Team) map[int][]domain.FixtureRef {
	strength := make(map[int]int, len(teams))
	for _, tm := range teams {
		strength[tm.ID] = tm.Strength
	}
	lookup := func(teamID int) int {
		if s, ok := strength[teamID]; ok && s > 0 {
			return s
		}
		return neutralStrength
	}

	byTeam := map[int][]domain.FixtureRef{}
	for _, fx := range fixtures {
		byTeam[fx.TeamH] = append(byTeam[fx.TeamH], domain.FixtureRef{
			OpponentTeamID:   fx.TeamA,
			OpponentStrength: lookup(fx.TeamA),
			WasHome:          true,
		})
		byTeam[fx.TeamA] = append(byTeam[fx.TeamA], domain.FixtureRef{
			OpponentTeamID:   fx.TeamH,
			OpponentStrength: lookup(fx.TeamH),
			WasHome:          false,
		})
	}
	return byTeam
}
