// Package engine implements the deterministic gameweek planner: lineup
// optimization, captaincy, chip evaluation, transfer suggestions and the
// composition of the final action list.
package engine

import "gwplanner/internal/modules/planning/domain"

// LegalFormations enumerates every in-bounds formation, ordered by ascending
// defenders then ascending midfielders. The lineup optimizer keeps the first
// formation on an exact EP tie, so this order encodes the attacking
// preference: 3-4-3 beats any equal-EP alternative.
func LegalFormations() []domain.Formation {
	formations := make([]domain.Formation, 0, 8)
	for def := domain.MinDef; def <= domain.MaxDef; def++ {
		for mid := domain.MinMid; mid <= domain.MaxMid; mid++ {
			f := domain.Formation{Def: def, Mid: mid, Fwd: 10 - def - mid}
			if f.InBounds() {
				formations = append(formations, f)
			}
		}
	}
	return formations
}
