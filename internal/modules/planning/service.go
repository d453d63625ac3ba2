// Package planning orchestrates a gameweek planning run: it loads the
// upstream snapshots, projects expected points, resolves the manager's
// baseline picks and hands a pure request to the engine.
package planning

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/modules/catalog"
	"gwplanner/internal/modules/planning/domain"
	"gwplanner/internal/modules/planning/engine"
	"gwplanner/internal/modules/projections"
)

// PicksStrategy selects the baseline squad for planning
type PicksStrategy string

const (
	// PicksLatest walks back from the last live gameweek until picks exist
	PicksLatest PicksStrategy = "latest"
	// PicksExact requires picks for the target gameweek itself
	PicksExact PicksStrategy = "exact"
)

// ParsePicksStrategy validates a strategy string, defaulting empty to latest
func ParsePicksStrategy(s string) (PicksStrategy, error) {
	switch s {
	case "", string(PicksLatest):
		return PicksLatest, nil
	case string(PicksExact):
		return PicksExact, nil
	}
	return "", fmt.Errorf("invalid picks_strategy %q (want latest or exact)", s)
}

// ErrNoLiveGW indicates the bootstrap has no current or finished gameweek,
// so there is no starting point for the latest-picks walk-back.
var ErrNoLiveGW = errors.New("planning: cannot determine last live gameweek")

// Service runs planning against live FPL data
type Service struct {
	client *fpl.Client
	log    zerolog.Logger
}

// NewService creates a planning service
func NewService(client *fpl.Client, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		log:    log.With().Str("module", "planning").Logger(),
	}
}

// PlanParams are the caller-facing knobs of one planning run
type PlanParams struct {
	TID              int
	GW               int
	Mode             domain.Mode
	IncludeTransfers bool
	AllowHit         bool
	BankOverride     *int
	PicksStrategy    PicksStrategy
}

// PlanOutcome bundles the plan with the snapshot context the handlers need
// to render expanded payloads.
type PlanOutcome struct {
	Result      *domain.PlannerResult
	PicksGWUsed int
	Catalog     *catalog.Catalog

	// Fixtures maps each squad player to their gameweek fixture, nil on a blank
	Fixtures map[int]*domain.FixtureRef
}

// PlanGameweek produces the full plan for a manager and target gameweek
func (s *Service) PlanGameweek(ctx context.Context, p PlanParams) (*PlanOutcome, error) {
	boot, err := s.client.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	cat := catalog.New(boot)

	fixtures, err := s.client.FixturesByGW(ctx, p.GW)
	if err != nil {
		return nil, err
	}
	byTeam := projections.TeamFixtures(fixtures, boot.Teams)

	picks, picksGWUsed, err := s.resolvePicks(ctx, cat, p.TID, p.GW, p.PicksStrategy)
	if err != nil {
		return nil, err
	}

	squad, current, err := SquadFromPicks(picks, cat, byTeam)
	if err != nil {
		return nil, err
	}

	if p.BankOverride != nil && *p.BankOverride < 0 {
		s.log.Warn().Int("bank_override", *p.BankOverride).
			Msg("Ignoring negative bank override, using entry history bank")
	}

	result, err := engine.Plan(engine.PlanRequest{
		GW:               p.GW,
		Squad:            squad,
		Current:          current,
		Mode:             p.Mode,
		IncludeTransfers: p.IncludeTransfers,
		AllowHit:         p.AllowHit,
		Bank:             picks.EntryHistory.Bank,
		BankOverride:     p.BankOverride,
		Pool:             CandidatePool(boot.Elements, &squad, byTeam),
		Names:            cat.Names(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("tid", p.TID).Int("gw", p.GW).Int("picks_gw_used", picksGWUsed).
		Str("mode", string(p.Mode)).Int("actions", len(result.Actions)).
		Msg("Planned gameweek")

	squadFixtures := make(map[int]*domain.FixtureRef, len(squad.Players))
	for _, player := range squad.Players {
		squadFixtures[player.ID] = player.Fixture
	}

	return &PlanOutcome{
		Result:      result,
		PicksGWUsed: picksGWUsed,
		Catalog:     cat,
		Fixtures:    squadFixtures,
	}, nil
}

// resolvePicks loads the baseline picks per strategy. Latest walks back from
// the last live gameweek until a gameweek with picks is found.
func (s *Service) resolvePicks(ctx context.Context, cat *catalog.Catalog, tid, gw int, strategy PicksStrategy) (*fpl.ManagerPicks, int, error) {
	if strategy == PicksExact {
		picks, err := s.client.ManagerPicks(ctx, tid, gw)
		if err != nil {
			return nil, 0, err
		}
		return picks, gw, nil
	}

	last, ok := cat.LastLiveGW()
	if !ok {
		return nil, 0, ErrNoLiveGW
	}
	for cur := last; cur >= 1; cur-- {
		picks, err := s.client.ManagerPicks(ctx, tid, cur)
		if err != nil {
			if errors.Is(err, fpl.ErrNotFound) {
				continue
			}
			return nil, 0, err
		}
		return picks, cur, nil
	}
	return nil, 0, fmt.Errorf("no baseline picks for team %d: %w", tid, fpl.ErrNotFound)
}

// SquadFromPicks converts upstream picks into the engine's squad and current
// lineup, projecting each player's EP across the target gameweek's fixtures.
func SquadFromPicks(picks *fpl.ManagerPicks, cat *catalog.Catalog, byTeam map[int][]domain.FixtureRef) (domain.Squad, domain.CurrentLineup, error) {
	squad := domain.Squad{Players: make([]domain.Player, 0, len(picks.Picks))}
	var current domain.CurrentLineup

	for _, pick := range picks.Picks {
		el, ok := cat.Element(pick.Element)
		if !ok {
			return domain.Squad{}, current, &domain.InsufficientDataError{
				Reason: fmt.Sprintf("picked player %d missing from bootstrap", pick.Element),
			}
		}
		squad.Players = append(squad.Players, playerFromElement(el, byTeam))

		if pick.Multiplier > 0 {
			current.Starters = append(current.Starters, pick.Element)
		} else {
			current.Bench = append(current.Bench, pick.Element)
		}
		if pick.IsCaptain {
			current.Captain = pick.Element
		}
		if pick.IsViceCaptain {
			current.ViceCaptain = pick.Element
		}
	}
	return squad, current, nil
}

// CandidatePool lists every bootstrap player outside the squad as a transfer
// candidate, projected against its own gameweek fixtures.
func CandidatePool(elements []fpl.Element, squad *domain.Squad, byTeam map[int][]domain.FixtureRef) []domain.Player {
	inSquad := make(map[int]bool, len(squad.Players))
	for _, p := range squad.Players {
		inSquad[p.ID] = true
	}
	pool := make([]domain.Player, 0, len(elements)-len(squad.Players))
	for _, el := range elements {
		if inSquad[el.ID] {
			continue
		}
		pool = append(pool, playerFromElement(el, byTeam))
	}
	return pool
}

func playerFromElement(el fpl.Element, byTeam map[int][]domain.FixtureRef) domain.Player {
	refs := byTeam[el.Team]
	var fixture *domain.FixtureRef
	if len(refs) > 0 {
		first := refs[0]
		fixture = &first
	}
	return domain.Player{
		ID:       el.ID,
		Name:     el.WebName,
		Position: domain.PositionFromElementType(el.ElementType),
		Team:     el.Team,
		Cost:     el.NowCost,
		EP:       projections.ForFixtures(el, refs),
		Fixture:  fixture,
	}
}
