// Package domain contains the pure planning types: players, squads,
// formations, lineups and the planner result. No infrastructure dependencies.
package domain

import (
	"fmt"
	"sort"
)

// Position is a player's position code
type Position string

const (
	PositionGK  Position = "GK"
	PositionDEF Position = "DEF"
	PositionMID Position = "MID"
	PositionFWD Position = "FWD"
)

// OutfieldPositions in canonical order (defence to attack)
var OutfieldPositions = []Position{PositionDEF, PositionMID, PositionFWD}

// PositionFromElementType maps an FPL element_type to a position code.
// Unknown types default to MID, matching upstream behavior for new types.
func PositionFromElementType(elementType int) Position {
	switch elementType {
	case 1:
		return PositionGK
	case 2:
		return PositionDEF
	case 3:
		return PositionMID
	case 4:
		return PositionFWD
	}
	return PositionMID
}

// Mode is the captaincy preference
type Mode string

const (
	// ModeSafe ranks captains by expected points alone
	ModeSafe Mode = "safe"
	// ModeAggressive rewards favorable fixtures on top of expected points
	ModeAggressive Mode = "aggressive"
)

// ParseMode validates a mode string, defaulting empty to safe
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeSafe):
		return ModeSafe, nil
	case string(ModeAggressive):
		return ModeAggressive, nil
	}
	return "", fmt.Errorf("invalid mode %q (want safe or aggressive)", s)
}

// FixtureRef is a fixture seen from one team's perspective
type FixtureRef struct {
	OpponentTeamID   int  `json:"opponent_team_id"`
	OpponentStrength int  `json:"opponent_strength"`
	WasHome          bool `json:"was_home"`
}

// Player is an immutable snapshot of one player for a single planning run.
// Cost is in 0.1m units. EP is the expected-points projection for the GW.
type Player struct {
	ID       int
	Name     string
	Position Position
	Team     int
	Cost     int
	EP       float64
	Fixture  *FixtureRef // nil on a blank gameweek
}

// Squad composition for a legal 15-player squad
const (
	SquadSize = 15
	SquadGK   = 2
	SquadDEF  = 5
	SquadMID  = 5
	SquadFWD  = 3
)

// Squad is the 15-player squad being planned for. Read-only to the engine.
type Squad struct {
	Players []Player
}

// Validate checks squad size, fixed position counts and non-negative EP
func (s *Squad) Validate() error {
	if len(s.Players) != SquadSize {
		return &InvalidSquadCompositionError{
			Reason: fmt.Sprintf("squad has %d players, want %d", len(s.Players), SquadSize),
		}
	}

	counts := map[Position]int{}
	seen := map[int]bool{}
	for _, p := range s.Players {
		if seen[p.ID] {
			return &InvalidSquadCompositionError{
				Reason: fmt.Sprintf("duplicate player id %d", p.ID),
			}
		}
		seen[p.ID] = true
		if p.EP < 0 {
			return &InvalidSquadCompositionError{
				Reason: fmt.Sprintf("player %d has negative EP", p.ID),
			}
		}
		counts[p.Position]++
	}

	want := map[Position]int{
		PositionGK:  SquadGK,
		PositionDEF: SquadDEF,
		PositionMID: SquadMID,
		PositionFWD: SquadFWD,
	}
	for pos, n := range want {
		if counts[pos] != n {
			return &InvalidSquadCompositionError{
				Reason: fmt.Sprintf("squad has %d %s, want %d", counts[pos], pos, n),
			}
		}
	}
	return nil
}

// Player returns the squad player with the given id
func (s *Squad) Player(id int) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// ByPosition groups squad players per position, each group sorted by
// descending EP with deterministic tie-breaks (fixture factor, then id).
func (s *Squad) ByPosition() map[Position][]Player {
	groups := map[Position][]Player{}
	for _, p := range s.Players {
		groups[p.Position] = append(groups[p.Position], p)
	}
	for pos := range groups {
		SortByEP(groups[pos])
	}
	return groups
}

// TeamCounts returns players-per-club, used for the 3-per-club transfer rule
func (s *Squad) TeamCounts() map[int]int {
	counts := map[int]int{}
	for _, p := range s.Players {
		counts[p.Team]++
	}
	return counts
}

// FixtureFactor is the fixture-adjusted score used for EP tie-breaks and the
// aggressive captaincy bonus: weaker opponents and home fixtures score higher.
// Range [0, 1.05]; 0 when the player has no fixture.
func FixtureFactor(p Player) float64 {
	if p.Fixture == nil {
		return 0
	}
	// Higher strength numbers are weaker opposition; map 1 -> 0, 5 -> 1
	strength := p.Fixture.OpponentStrength
	if strength < 1 {
		strength = 1
	}
	if strength > 5 {
		strength = 5
	}
	factor := float64(strength-1) / 4.0
	if p.Fixture.WasHome {
		factor += 0.05
	}
	return factor
}

// SortByEP orders players by descending EP; ties broken by higher fixture
// factor, then lower id, so repeated runs always produce the same order.
func SortByEP(players []Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].EP != players[j].EP {
			return players[i].EP > players[j].EP
		}
		fi, fj := FixtureFactor(players[i]), FixtureFactor(players[j])
		if fi != fj {
			return fi > fj
		}
		return players[i].ID < players[j].ID
	})
}

// Formation bounds: def in [3,5], mid in [2,5], fwd in [1,3], summing to 10
const (
	MinDef = 3
	MaxDef = 5
	MinMid = 2
	MaxMid = 5
	MinFwd = 1
	MaxFwd = 3
)

// Formation is the outfield shape of the starting XI (plus one fixed GK)
type Formation struct {
	Def int
	Mid int
	Fwd int
}

// InBounds reports whether the formation satisfies the positional bounds
func (f Formation) InBounds() bool {
	return f.Def >= MinDef && f.Def <= MaxDef &&
		f.Mid >= MinMid && f.Mid <= MaxMid &&
		f.Fwd >= MinFwd && f.Fwd <= MaxFwd &&
		f.Def+f.Mid+f.Fwd == 10
}

// Count returns the formation's requirement for an outfield position
func (f Formation) Count(pos Position) int {
	switch pos {
	case PositionDEF:
		return f.Def
	case PositionMID:
		return f.Mid
	case PositionFWD:
		return f.Fwd
	}
	return 0
}

// String renders the formation as "3-4-3"
func (f Formation) String() string {
	return fmt.Sprintf("%d-%d-%d", f.Def, f.Mid, f.Fwd)
}

// FormationOf derives the formation of a set of starters
func FormationOf(starters []Player) Formation {
	var f Formation
	for _, p := range starters {
		switch p.Position {
		case PositionDEF:
			f.Def++
		case PositionMID:
			f.Mid++
		case PositionFWD:
			f.Fwd++
		}
	}
	return f
}

// Lineup is a formation plus the 11 starters and the 4-player bench.
// The bench is ordered by descending EP (auto-sub priority).
type Lineup struct {
	Formation Formation
	Starters  []Player
	Bench     []Player
	TotalEP   float64
}

// CurrentLineup is the caller-supplied lineup being compared against
type CurrentLineup struct {
	Starters    []int
	Bench       []int
	Captain     int
	ViceCaptain int
}

// CaptaincyChoice is the selected captain and vice-captain (always distinct)
type CaptaincyChoice struct {
	Captain     Player
	ViceCaptain Player
}
