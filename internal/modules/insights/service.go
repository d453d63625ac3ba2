// Package insights produces read-only gameweek views of a manager's squad:
// the template-vs-differential summary and the captain/transfer analysis.
// Unlike the planner these endpoints never propose a lineup; they surface
// the signals the planner acts on.
package insights

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/modules/catalog"
	"gwplanner/internal/modules/planning"
	"gwplanner/internal/modules/planning/domain"
	"gwplanner/internal/modules/planning/engine"
	"gwplanner/internal/modules/projections"
)

// Ownership at or above this percentage counts a pick as template
const templateOwnershipThreshold = 20.0

const maxCaptainCandidates = 3

// PickNote is one squad slot with its armband flags
type PickNote struct {
	Element       int  `json:"element"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

// TemplateDifferential counts template picks against differentials
type TemplateDifferential struct {
	TemplateCount     int     `json:"template_count"`
	DifferentialCount int     `json:"differential_count"`
	TemplateRatio     float64 `json:"template_ratio"`
}

// CaptainCandidate is a scored armband option
type CaptainCandidate struct {
	Element int     `json:"element"`
	Score   float64 `json:"score"`
}

// Summary is the compact gameweek summary for a manager
type Summary struct {
	GW                     int                  `json:"gw"`
	Picks                  []PickNote           `json:"picks"`
	TemplateVsDifferential TemplateDifferential `json:"template_vs_differential"`
	CaptainCandidates      []CaptainCandidate   `json:"captain_candidates"`
}

// EPRow is one pick's projection with its fixture context
type EPRow struct {
	Element          int     `json:"element"`
	EP               float64 `json:"ep"`
	OpponentTeam     *int    `json:"opponent_team,omitempty"`
	OpponentStrength *int    `json:"opponent_strength,omitempty"`
	WasHome          *bool   `json:"was_home,omitempty"`
}

// Analysis is the deeper gameweek view: both captaincy modes, per-pick
// projections and budget-legal transfer suggestions.
type Analysis struct {
	GW                           int                         `json:"gw"`
	RecommendedCaptainSafe       CaptainCandidate            `json:"recommended_captain_safe"`
	RecommendedCaptainAggressive CaptainCandidate            `json:"recommended_captain_aggressive"`
	EPRows                       []EPRow                     `json:"epdeltas"`
	TransferSuggestions          []domain.TransferSuggestion `json:"transfer_suggestions"`
	BankUsed                     int                         `json:"bank_used"`
}

// Service computes insights from live FPL data
type Service struct {
	client *fpl.Client
	log    zerolog.Logger
}

// NewService creates an insights service
func NewService(client *fpl.Client, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		log:    log.With().Str("module", "insights").Logger(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// snapshot is the loaded context both insight views start from
type snapshot struct {
	boot    *fpl.Bootstrap
	picks   *fpl.ManagerPicks
	cat     *catalog.Catalog
	squad   domain.Squad
	current domain.CurrentLineup
	byTeam  map[int][]domain.FixtureRef
}

// load fetches the snapshots for one manager and gameweek and projects the
// squad. Both insight views require exact-GW picks.
func (s *Service) load(ctx context.Context, tid, gw int) (*snapshot, error) {
	boot, err := s.client.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	cat := catalog.New(boot)

	picks, err := s.client.ManagerPicks(ctx, tid, gw)
	if err != nil {
		return nil, err
	}

	fixtures, err := s.client.FixturesByGW(ctx, gw)
	if err != nil {
		return nil, err
	}
	byTeam := projections.TeamFixtures(fixtures, boot.Teams)

	squad, current, err := planning.SquadFromPicks(picks, cat, byTeam)
	if err != nil {
		return nil, err
	}
	return &snapshot{
		boot:    boot,
		picks:   picks,
		cat:     cat,
		squad:   squad,
		current: current,
		byTeam:  byTeam,
	}, nil
}

// GameweekSummary reports squad composition versus the template and the top
// three safe-mode captain candidates from the starting XI.
func (s *Service) GameweekSummary(ctx context.Context, tid, gw int) (*Summary, *catalog.Catalog, error) {
	snap, err := s.load(ctx, tid, gw)
	if err != nil {
		return nil, nil, err
	}

	summary := &Summary{GW: gw, Picks: make([]PickNote, 0, len(snap.picks.Picks))}
	for _, pick := range snap.picks.Picks {
		summary.Picks = append(summary.Picks, PickNote{
			Element:       pick.Element,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		})
		if snap.cat.Ownership(pick.Element) >= templateOwnershipThreshold {
			summary.TemplateVsDifferential.TemplateCount++
		} else {
			summary.TemplateVsDifferential.DifferentialCount++
		}
	}
	if total := len(snap.picks.Picks); total > 0 {
		summary.TemplateVsDifferential.TemplateRatio = round2(
			float64(summary.TemplateVsDifferential.TemplateCount) / float64(total))
	}

	summary.CaptainCandidates = captainCandidates(
		starters(&snap.squad, snap.current), domain.ModeSafe, maxCaptainCandidates)
	return summary, snap.cat, nil
}

// GameweekAnalysis reports both captaincy recommendations, every pick's
// projection with fixture context and ranked transfer suggestions.
func (s *Service) GameweekAnalysis(ctx context.Context, tid, gw int, allowHit bool, bankOverride *int) (*Analysis, *catalog.Catalog, error) {
	snap, err := s.load(ctx, tid, gw)
	if err != nil {
		return nil, nil, err
	}

	analysis := &Analysis{GW: gw}

	xi := starters(&snap.squad, snap.current)
	if safe := captainCandidates(xi, domain.ModeSafe, 1); len(safe) > 0 {
		analysis.RecommendedCaptainSafe = safe[0]
	}
	if aggressive := captainCandidates(xi, domain.ModeAggressive, 1); len(aggressive) > 0 {
		analysis.RecommendedCaptainAggressive = aggressive[0]
	}

	for _, p := range snap.squad.Players {
		row := EPRow{Element: p.ID, EP: round2(p.EP)}
		if p.Fixture != nil {
			opp, strength, home := p.Fixture.OpponentTeamID, p.Fixture.OpponentStrength, p.Fixture.WasHome
			row.OpponentTeam = &opp
			row.OpponentStrength = &strength
			row.WasHome = &home
		}
		analysis.EPRows = append(analysis.EPRows, row)
	}

	bank := snap.picks.EntryHistory.Bank
	if bankOverride != nil {
		if *bankOverride >= 0 {
			bank = *bankOverride
		} else {
			s.log.Warn().Int("bank_override", *bankOverride).
				Msg("Ignoring negative bank override, using entry history bank")
		}
	}
	analysis.BankUsed = bank

	suggestions := engine.SuggestTransfers(engine.TransferContext{
		GW:       gw,
		Squad:    &snap.squad,
		Pool:     planning.CandidatePool(snap.boot.Elements, &snap.squad, snap.byTeam),
		Bank:     bank,
		AllowHit: allowHit,
	})
	for i := range suggestions {
		suggestions[i].EPOut = round2(suggestions[i].EPOut)
		suggestions[i].EPIn = round2(suggestions[i].EPIn)
		suggestions[i].DeltaEP = round2(suggestions[i].DeltaEP)
	}
	analysis.TransferSuggestions = suggestions

	return analysis, snap.cat, nil
}

// starters resolves the current XI to squad players
func starters(squad *domain.Squad, current domain.CurrentLineup) []domain.Player {
	xi := make([]domain.Player, 0, len(current.Starters))
	for _, id := range current.Starters {
		if p, ok := squad.Player(id); ok {
			xi = append(xi, p)
		}
	}
	return xi
}

// captainCandidates ranks the outfield starters by captain score with the
// planner's deterministic tie-breaks, returning up to limit entries.
func captainCandidates(xi []domain.Player, mode domain.Mode, limit int) []CaptainCandidate {
	outfield := make([]domain.Player, 0, len(xi))
	for _, p := range xi {
		if p.Position != domain.PositionGK {
			outfield = append(outfield, p)
		}
	}
	sort.SliceStable(outfield, func(i, j int) bool {
		si, sj := engine.CaptainScore(outfield[i], mode), engine.CaptainScore(outfield[j], mode)
		if si != sj {
			return si > sj
		}
		fi, fj := domain.FixtureFactor(outfield[i]), domain.FixtureFactor(outfield[j])
		if fi != fj {
			return fi > fj
		}
		return outfield[i].ID < outfield[j].ID
	})

	if len(outfield) > limit {
		outfield = outfield[:limit]
	}
	candidates := make([]CaptainCandidate, 0, len(outfield))
	for _, p := range outfield {
		candidates = append(candidates, CaptainCandidate{
			Element: p.ID,
			Score:   round2(engine.CaptainScore(p, mode)),
		})
	}
	return candidates
}
