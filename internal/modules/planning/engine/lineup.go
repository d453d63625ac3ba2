package engine

import (
	"gonum.org/v1/gonum/floats"

	"gwplanner/internal/modules/planning/domain"
)

// OptimizeLineup finds the EP-maximal starting XI over all legal formations.
// For each formation it takes the higher-EP goalkeeper plus the top-N players
// per outfield position (groups pre-sorted with deterministic tie-breaks),
// then keeps the formation with the highest total. Exact ties keep the
// earlier formation in LegalFormations order.
//
// The bench is the remaining four players ordered by descending EP, which is
// the auto-substitution priority.
func OptimizeLineup(squad *domain.Squad) (*domain.Lineup, error) {
	groups := squad.ByPosition()
	gks := groups[domain.PositionGK]
	if len(gks) == 0 {
		return nil, &domain.NoLegalFormationError{}
	}

	var best *domain.Lineup
	for _, f := range LegalFormations() {
		if len(groups[domain.PositionDEF]) < f.Def ||
			len(groups[domain.PositionMID]) < f.Mid ||
			len(groups[domain.PositionFWD]) < f.Fwd {
			continue
		}

		starters := make([]domain.Player, 0, 11)
		starters = append(starters, gks[0])
		for _, pos := range domain.OutfieldPositions {
			starters = append(starters, groups[pos][:f.Count(pos)]...)
		}

		eps := make([]float64, len(starters))
		for i, p := range starters {
			eps[i] = p.EP
		}
		total := floats.Sum(eps)

		if best == nil || total > best.TotalEP {
			best = &domain.Lineup{Formation: f, Starters: starters, TotalEP: total}
		}
	}
	if best == nil {
		return nil, &domain.NoLegalFormationError{}
	}

	inXI := make(map[int]bool, len(best.Starters))
	for _, p := range best.Starters {
		inXI[p.ID] = true
	}
	bench := make([]domain.Player, 0, 4)
	for _, p := range squad.Players {
		if !inXI[p.ID] {
			bench = append(bench, p)
		}
	}
	domain.SortByEP(bench)
	best.Bench = bench

	return best, nil
}
