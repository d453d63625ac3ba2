package engine

import (
	"fmt"
	"sort"

	"gwplanner/internal/modules/planning/domain"
)

const (
	// A points hit frees up to 0.4m of extra budget, in 0.1m units
	hitAllowance = 4

	maxSuggestions = 3
	maxPerClub     = 3
)

// TransferContext carries the inputs of one transfer-suggestion pass.
// Bank and all costs are in 0.1m units.
type TransferContext struct {
	GW       int
	Squad    *domain.Squad
	Pool     []domain.Player
	Bank     int
	AllowHit bool
}

type transferPair struct {
	out   domain.Player
	in    domain.Player
	delta float64
}

// SuggestTransfers proposes same-position upgrades from outside the squad,
// ranked by EP gain. Suggestions are applied sequentially: each one updates
// the remaining bank and the per-club counts before the next is considered,
// so the whole set stays FPL-legal (3-per-club cap, cumulative spend within
// bank plus the hit allowance when AllowHit is set).
func SuggestTransfers(ctx TransferContext) []domain.TransferSuggestion {
	inSquad := make(map[int]bool, len(ctx.Squad.Players))
	for _, p := range ctx.Squad.Players {
		inSquad[p.ID] = true
	}

	pairs := make([]transferPair, 0)
	for _, in := range ctx.Pool {
		if inSquad[in.ID] {
			continue
		}
		for _, out := range ctx.Squad.Players {
			if in.Position != out.Position || in.EP <= out.EP {
				continue
			}
			pairs = append(pairs, transferPair{out: out, in: in, delta: in.EP - out.EP})
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

	allowance := 0
	if ctx.AllowHit {
		allowance = hitAllowance
	}
	remaining := ctx.Bank
	teamCounts := ctx.Squad.TeamCounts()
	usedOut := map[int]bool{}
	usedIn := map[int]bool{}

	suggestions := make([]domain.TransferSuggestion, 0, maxSuggestions)
	for _, pair := range pairs {
		if len(suggestions) == maxSuggestions {
			break
		}
		if usedOut[pair.out.ID] || usedIn[pair.in.ID] {
			continue
		}
		costDelta := pair.in.Cost - pair.out.Cost
		if remaining-costDelta < -allowance {
			continue
		}
		if pair.in.Team != pair.out.Team && teamCounts[pair.in.Team] >= maxPerClub {
			continue
		}

		n := len(suggestions) + 1
		suggestions = append(suggestions, domain.TransferSuggestion{
			OutPlayer:  pair.out.ID,
			InPlayer:   pair.in.ID,
			EPOut:      pair.out.EP,
			EPIn:       pair.in.EP,
			DeltaEP:    pair.delta,
			CostOut:    pair.out.Cost,
			CostIn:     pair.in.Cost,
			Priority:   n,
			BundleID:   fmt.Sprintf("transfer-%d-%d", ctx.GW, n),
			Reason:     fmt.Sprintf("Upgrade EP_diff %.2f -> %.2f", pair.out.EP, pair.in.EP),
			OutFixture: pair.out.Fixture,
			InFixture:  pair.in.Fixture,
		})

		usedOut[pair.out.ID] = true
		usedIn[pair.in.ID] = true
		remaining -= costDelta
		teamCounts[pair.out.Team]--
		teamCounts[pair.in.Team]++
	}
	return suggestions
}
