package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gwplanner/internal/modules/planning/domain"
)

// Short summaries are clamped to one sentence-sized line
const maxSummaryLen = 140

// round2 is applied exactly once, here at composition time. Everything
// upstream of compose runs at full float precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func fptr(v float64) *float64 {
	r := round2(v)
	return &r
}

func chipDisplay(chip domain.ChipCode) string {
	switch chip {
	case domain.ChipBenchBoost:
		return "BB"
	case domain.ChipTripleCaptain:
		return "TC"
	}
	return "NONE"
}

type swapPair struct {
	in    domain.Player
	out   domain.Player
	delta float64
}

// legalStart reports whether a trial XI has exactly one GK and an in-bounds
// outfield formation.
func legalStart(squad *domain.Squad, ids []int) bool {
	if len(ids) != 11 {
		return false
	}
	gk := 0
	var f domain.Formation
	for _, id := range ids {
		p, ok := squad.Player(id)
		if !ok {
			return false
		}
		switch p.Position {
		case domain.PositionGK:
			gk++
		case domain.PositionDEF:
			f.Def++
		case domain.PositionMID:
			f.Mid++
		case domain.PositionFWD:
			f.Fwd++
		}
	}
	return gk == 1 && f.InBounds()
}

// selectSwaps pairs incoming optimal starters with outgoing current starters
// greedily by EP gain, only accepting a swap when the intermediate XI stays
// legal. Each swap applies to the trial XI before the next is considered, so
// the emitted sequence can be executed step by step.
func selectSwaps(squad *domain.Squad, currentStart []int, optimal *domain.Lineup) []swapPair {
	curSet := make(map[int]bool, len(currentStart))
	for _, id := range currentStart {
		curSet[id] = true
	}
	optSet := make(map[int]bool, len(optimal.Starters))
	for _, p := range optimal.Starters {
		optSet[p.ID] = true
	}

	var pairs []swapPair
	for _, in := range optimal.Starters {
		if curSet[in.ID] {
			continue
		}
		for _, id := range currentStart {
			if optSet[id] {
				continue
			}
			out, ok := squad.Player(id)
			if !ok {
				continue
			}
			if delta := in.EP - out.EP; delta > 0 {
				pairs = append(pairs, swapPair{in: in, out: out, delta: delta})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].delta != pairs[j].delta {
			return pairs[i].delta > pairs[j].delta
		}
		if pairs[i].in.ID != pairs[j].in.ID {
			return pairs[i].in.ID < pairs[j].in.ID
		}
		return pairs[i].out.ID < pairs[j].out.ID
	})

	var chosen []swapPair
	usedIn := map[int]bool{}
	usedOut := map[int]bool{}
	trial := append([]int(nil), currentStart...)
	for _, pair := range pairs {
		if usedIn[pair.in.ID] || usedOut[pair.out.ID] {
			continue
		}
		next := make([]int, 0, 11)
		for _, id := range trial {
			if id != pair.out.ID {
				next = append(next, id)
			}
		}
		next = append(next, pair.in.ID)
		if !legalStart(squad, next) {
			continue
		}
		chosen = append(chosen, pair)
		usedIn[pair.in.ID] = true
		usedOut[pair.out.ID] = true
		trial = next
	}
	return chosen
}

type planState struct {
	req             *PlanRequest
	currentStart    []int
	currentBench    []int
	currentCaptain  int
	currentVice     int
	lineup          *domain.Lineup
	captaincy       domain.CaptaincyChoice
	chipEval        domain.ChipEvaluation
	suggestions     []domain.TransferSuggestion
	bankUsed        int
	overrideApplied bool
}

func (st *planState) name(id int) string {
	if nm, ok := st.req.Names[id]; ok && nm != "" {
		return nm
	}
	return strconv.Itoa(id)
}

func (st *planState) playerEP(id int) float64 {
	p, ok := st.req.Squad.Player(id)
	if !ok {
		return 0
	}
	return p.EP
}

func clampSummary(s string) string {
	if len(s) <= maxSummaryLen {
		return s
	}
	return s[:maxSummaryLen-3] + "..."
}

// compose assembles the final result: the ordered action list, both
// summaries and every EP field rounded to 2 decimals.
func compose(st *planState) *domain.PlannerResult {
	swaps := selectSwaps(&st.req.Squad, st.currentStart, st.lineup)

	perPlayerEP := make(map[int]float64, len(st.req.Squad.Players))
	epTotalCurrent := 0.0
	for _, p := range st.req.Squad.Players {
		perPlayerEP[p.ID] = round2(p.EP)
	}
	for _, id := range st.currentStart {
		epTotalCurrent += st.playerEP(id)
	}

	actions := make([]domain.Action, 0, len(swaps)+3)
	var incomingNames, outgoingNames []string
	var longParts []string

	lineupBundle := fmt.Sprintf("lineup-%d-1", st.req.GW)
	for i, sw := range swaps {
		incomingNames = append(incomingNames, st.name(sw.in.ID))
		outgoingNames = append(outgoingNames, st.name(sw.out.ID))
		actions = append(actions, domain.Action{
			Type:       domain.ActionSwap,
			Group:      domain.GroupLineup,
			Priority:   domain.PrioritySwapBase + i,
			BundleID:   lineupBundle,
			InPlayer:   sw.in.ID,
			OutPlayer:  sw.out.ID,
			EPIn:       fptr(sw.in.EP),
			EPOut:      fptr(sw.out.EP),
			DeltaEP:    fptr(sw.delta),
			ReasonCode: domain.ReasonHigherEP,
			Reason:     fmt.Sprintf("EP_diff %.2f -> %.2f", round2(sw.out.EP), round2(sw.in.EP)),
			InFixture:  sw.in.Fixture,
			OutFixture: sw.out.Fixture,
		})
		longParts = append(longParts, fmt.Sprintf("Start %s for %s (+%.2f EP).",
			st.name(sw.in.ID), st.name(sw.out.ID), round2(sw.delta)))
	}

	captain := st.captaincy.Captain
	vice := st.captaincy.ViceCaptain
	if captain.ID != 0 && captain.ID != st.currentCaptain {
		oldEP := 0.0
		var epOld *float64
		if st.currentCaptain != 0 {
			oldEP = st.playerEP(st.currentCaptain)
			epOld = fptr(oldEP)
		}
		delta := captain.EP - oldEP
		actions = append(actions, domain.Action{
			Type:        domain.ActionSetCaptain,
			Group:       domain.GroupCaptaincy,
			Priority:    domain.PriorityCaptain,
			Player:      captain.ID,
			OldPlayer:   st.currentCaptain,
			EPNew:       fptr(captain.EP),
			EPOld:       epOld,
			DeltaEP:     fptr(delta),
			CaptainMode: st.req.Mode,
			ReasonCode:  domain.ReasonHighestCaptainScore,
			Reason:      fmt.Sprintf("Highest captain score in mode=%s", st.req.Mode),
		})
		oldName := "none"
		if st.currentCaptain != 0 {
			oldName = st.name(st.currentCaptain)
		}
		longParts = append(longParts, fmt.Sprintf("Captain %s over %s (+%.2f EP) in %s mode.",
			st.name(captain.ID), oldName, round2(delta), st.req.Mode))
	}
	if vice.ID != 0 && vice.ID != st.currentVice {
		actions = append(actions, domain.Action{
			Type:       domain.ActionSetVice,
			Group:      domain.GroupCaptaincy,
			Priority:   domain.PriorityVice,
			Player:     vice.ID,
			OldPlayer:  st.currentVice,
			ReasonCode: domain.ReasonSecondBestCaptain,
			Reason:     "Second-best captain",
		})
	}

	chip := RecommendChip(st.chipEval)
	bbGain := round2(st.chipEval.BenchBoostGain)
	tcGain := round2(st.chipEval.TripleCaptainGain)
	details := &domain.ChipDetails{
		BenchBoostGain:         bbGain,
		TripleCaptainGain:      tcGain,
		BenchBoostThreshold:    domain.BenchBoostThreshold,
		TripleCaptainThreshold: domain.TripleCaptainThreshold,
	}

	// One chip action per evaluated chip. A chip that clears its threshold
	// carries no reason code; one that falls short is a NONE recommendation
	// with below_threshold, gains and thresholds still reported.
	bbAction := domain.Action{
		Type:     domain.ActionChip,
		Group:    domain.GroupChip,
		Priority: domain.PriorityChipBase,
		Chip:     domain.ChipBenchBoost,
		Reason:   "Bench boost evaluation",
		Details:  details,
	}
	if st.chipEval.BenchBoostGain < domain.BenchBoostThreshold {
		bbAction.Chip = domain.ChipNone
		bbAction.ReasonCode = domain.ReasonBelowThreshold
	}
	tcAction := domain.Action{
		Type:     domain.ActionChip,
		Group:    domain.GroupChip,
		Priority: domain.PriorityChipBase + 1,
		Chip:     domain.ChipTripleCaptain,
		Reason:   "Triple captain evaluation",
		Details:  details,
	}
	if st.chipEval.TripleCaptainGain < domain.TripleCaptainThreshold {
		tcAction.Chip = domain.ChipNone
		tcAction.ReasonCode = domain.ReasonBelowThreshold
	}
	actions = append(actions, bbAction, tcAction)
	switch chip {
	case domain.ChipBenchBoost:
		longParts = append(longParts, fmt.Sprintf("Chip BB: bench adds +%.2f EP (>= %.0f).",
			bbGain, domain.BenchBoostThreshold))
	case domain.ChipTripleCaptain:
		longParts = append(longParts, fmt.Sprintf("Chip TC: captain extra +%.2f EP (>= %.0f).",
			tcGain, domain.TripleCaptainThreshold))
	default:
		longParts = append(longParts, fmt.Sprintf("No chip - bench adds +%.2f EP below %.0f.",
			bbGain, domain.BenchBoostThreshold))
	}

	var parts []string
	switch {
	case len(incomingNames) > 0 && len(outgoingNames) > 0:
		parts = append(parts, "Start "+strings.Join(incomingNames, ", ")+" and bench "+strings.Join(outgoingNames, ", "))
	case len(incomingNames) > 0:
		parts = append(parts, "Start "+strings.Join(incomingNames, ", "))
	case len(outgoingNames) > 0:
		parts = append(parts, "Bench "+strings.Join(outgoingNames, ", "))
	}
	if captain.ID != 0 {
		parts = append(parts, fmt.Sprintf("Captain %s (%s)", st.name(captain.ID), st.req.Mode))
	}
	parts = append(parts, "Chip: "+chipDisplay(chip))

	suggestions := make([]domain.TransferSuggestion, len(st.suggestions))
	for i, s := range st.suggestions {
		s.EPOut = round2(s.EPOut)
		s.EPIn = round2(s.EPIn)
		s.DeltaEP = round2(s.DeltaEP)
		suggestions[i] = s
	}

	optimalStart := make([]int, len(st.lineup.Starters))
	for i, p := range st.lineup.Starters {
		optimalStart[i] = p.ID
	}
	optimalBench := make([]int, len(st.lineup.Bench))
	for i, p := range st.lineup.Bench {
		optimalBench[i] = p.ID
	}
	currentPlayers := make([]domain.Player, 0, len(st.currentStart))
	for _, id := range st.currentStart {
		if p, ok := st.req.Squad.Player(id); ok {
			currentPlayers = append(currentPlayers, p)
		}
	}

	result := &domain.PlannerResult{
		GW:               st.req.GW,
		FormationCurrent: domain.FormationOf(currentPlayers).String(),
		FormationOptimal: st.lineup.Formation.String(),
		CurrentStart:     st.currentStart,
		CurrentBench:     st.currentBench,
		OptimalStart:     optimalStart,
		OptimalBench:     optimalBench,
		Captain:          captain.ID,
		ViceCaptain:      vice.ID,
		EPTotalCurrent:   round2(epTotalCurrent),
		EPTotalOptimal:   round2(st.lineup.TotalEP),
		EPGainLineup:     round2(st.lineup.TotalEP - epTotalCurrent),
		BenchEPTotal:     round2(st.chipEval.BenchBoostGain),
		ChipEvaluation: domain.ChipEvaluation{
			BenchBoostGain:    bbGain,
			TripleCaptainGain: tcGain,
		},
		PerPlayerEP:         perPlayerEP,
		Actions:             actions,
		TransferSuggestions: suggestions,
		Summary:             clampSummary(strings.Join(parts, ". ") + "."),
		SummaryLong:         strings.Join(longParts, " "),
		BankUsed:            st.bankUsed,
		BankOverrideApplied: st.overrideApplied,
	}
	return result
}
