package engine

import (
	"gwplanner/internal/modules/planning/domain"
)

// exampleSquad builds a 15-player squad with distinct EPs whose optimal
// lineup is known by hand: formation 3-5-2 with the 5.0 GK, total EP 32.6.
//
//	GK  (1, 2):        5.0, 4.5
//	DEF (3..7):        3.0, 2.8, 2.5, 1.0, 0.9
//	MID (8..12):       4.0, 3.5, 3.0, 2.0, 1.5
//	FWD (13..15):      3.2, 2.1, 1.0
func exampleSquad() domain.Squad {
	mk := func(id int, pos domain.Position, ep float64) domain.Player {
		return domain.Player{ID: id, Position: pos, EP: ep, Team: id, Cost: 50}
	}
	return domain.Squad{Players: []domain.Player{
		mk(1, domain.PositionGK, 5.0),
		mk(2, domain.PositionGK, 4.5),
		mk(3, domain.PositionDEF, 3.0),
		mk(4, domain.PositionDEF, 2.8),
		mk(5, domain.PositionDEF, 2.5),
		mk(6, domain.PositionDEF, 1.0),
		mk(7, domain.PositionDEF, 0.9),
		mk(8, domain.PositionMID, 4.0),
		mk(9, domain.PositionMID, 3.5),
		mk(10, domain.PositionMID, 3.0),
		mk(11, domain.PositionMID, 2.0),
		mk(12, domain.PositionMID, 1.5),
		mk(13, domain.PositionFWD, 3.2),
		mk(14, domain.PositionFWD, 2.1),
		mk(15, domain.PositionFWD, 1.0),
	}}
}

// exampleCurrent is a 4-4-2 baseline one swap away from the optimal 3-5-2
func exampleCurrent() domain.CurrentLineup {
	return domain.CurrentLineup{
		Starters:    []int{1, 3, 4, 5, 6, 8, 9, 10, 11, 13, 14},
		Bench:       []int{2, 7, 12, 15},
		Captain:     13,
		ViceCaptain: 8,
	}
}

func ids(players []domain.Player) []int {
	out := make([]int, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}
