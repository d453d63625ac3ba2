package engine

import (
	"fmt"

	"gwplanner/internal/modules/planning/domain"
)

// PlanRequest carries everything one planning run needs. The engine is pure:
// it performs no I/O and identical requests always produce identical plans.
type PlanRequest struct {
	GW      int
	Squad   domain.Squad
	Current domain.CurrentLineup
	Mode    domain.Mode

	// Transfer inputs. Pool holds candidate players outside the squad;
	// Bank is in 0.1m units. A negative BankOverride is ignored and the
	// computed bank is used instead.
	IncludeTransfers bool
	AllowHit         bool
	Bank             int
	BankOverride     *int
	Pool             []domain.Player

	// Names feeds the human-readable summaries; ids fall back to digits
	Names map[int]string
}

// Plan runs the full pipeline: validate, optimize the lineup, pick the
// armband, evaluate chips, suggest transfers and compose the action list.
func Plan(req PlanRequest) (*domain.PlannerResult, error) {
	if err := req.Squad.Validate(); err != nil {
		return nil, err
	}

	currentStart, currentBench, err := normalizeCurrent(&req.Squad, req.Current)
	if err != nil {
		return nil, err
	}

	lineup, err := OptimizeLineup(&req.Squad)
	if err != nil {
		return nil, err
	}

	captaincy := SelectCaptaincy(lineup.Starters, req.Mode)
	chipEval := EvaluateChips(lineup, captaincy.Captain)

	bankUsed := req.Bank
	overrideApplied := false
	if req.BankOverride != nil && *req.BankOverride >= 0 {
		bankUsed = *req.BankOverride
		overrideApplied = true
	}

	var suggestions []domain.TransferSuggestion
	if req.IncludeTransfers {
		suggestions = SuggestTransfers(TransferContext{
			GW:       req.GW,
			Squad:    &req.Squad,
			Pool:     req.Pool,
			Bank:     bankUsed,
			AllowHit: req.AllowHit,
		})
	}

	return compose(&planState{
		req:             &req,
		currentStart:    currentStart,
		currentBench:    currentBench,
		currentCaptain:  req.Current.Captain,
		currentVice:     req.Current.ViceCaptain,
		lineup:          lineup,
		captaincy:       captaincy,
		chipEval:        chipEval,
		suggestions:     suggestions,
		bankUsed:        bankUsed,
		overrideApplied: overrideApplied,
	}), nil
}

// normalizeCurrent validates the caller's lineup against the squad and
// coerces an illegal multi-GK XI: the higher-EP keeper stays, the others
// drop to the bench and the best benched outfielder is promoted.
func normalizeCurrent(squad *domain.Squad, current domain.CurrentLineup) ([]int, []int, error) {
	start := append([]int(nil), current.Starters...)
	bench := append([]int(nil), current.Bench...)

	if len(start) != 11 || len(bench) != 4 {
		return nil, nil, &domain.InsufficientDataError{
			Reason: fmt.Sprintf("lineup has %d starters and %d bench players, want 11 and 4", len(start), len(bench)),
		}
	}
	seen := map[int]bool{}
	for _, id := range append(append([]int(nil), start...), bench...) {
		if _, ok := squad.Player(id); !ok {
			return nil, nil, &domain.InsufficientDataError{
				Reason: fmt.Sprintf("lineup references player %d not in squad", id),
			}
		}
		if seen[id] {
			return nil, nil, &domain.InsufficientDataError{
				Reason: fmt.Sprintf("lineup lists player %d twice", id),
			}
		}
		seen[id] = true
	}

	var gks []domain.Player
	for _, id := range start {
		if p, _ := squad.Player(id); p.Position == domain.PositionGK {
			gks = append(gks, p)
		}
	}
	if len(gks) <= 1 {
		return start, bench, nil
	}

	domain.SortByEP(gks)
	for _, gk := range gks[1:] {
		start = removeID(start, gk.ID)
		bench = append(bench, gk.ID)
	}

	var benchOutfield []domain.Player
	for _, id := range bench {
		if p, _ := squad.Player(id); p.Position != domain.PositionGK {
			benchOutfield = append(benchOutfield, p)
		}
	}
	domain.SortByEP(benchOutfield)
	for _, p := range benchOutfield {
		if len(start) >= 11 {
			break
		}
		start = append(start, p.ID)
		bench = removeID(bench, p.ID)
	}

	return start, bench, nil
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
