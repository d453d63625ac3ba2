package handlers

import (
	"gwplanner/internal/modules/catalog"
	"gwplanner/internal/modules/planning"
	"gwplanner/internal/modules/planning/domain"
)

// Transfer suggestions below this EP gain are pruned from the response
const minTransferGain = 0.5

// PlannerMeta echoes the request parameters that shaped the plan
type PlannerMeta struct {
	TID           int    `json:"tid"`
	GW            int    `json:"gw"`
	Mode          string `json:"mode"`
	AllowHit      bool   `json:"allow_hit"`
	BankUsed      int    `json:"bank_used"`
	BankOverride  *int   `json:"bank_override,omitempty"`
	PicksStrategy string `json:"picks_strategy"`
}

// PlannerData is the compact plan body
type PlannerData struct {
	GW               int                   `json:"gw"`
	PicksGWUsed      int                   `json:"picks_gw_used"`
	FormationCurrent string                `json:"formation_current"`
	FormationOptimal string                `json:"formation_optimal"`
	CurrentStart     []int                 `json:"current_start"`
	CurrentBench     []int                 `json:"current_bench"`
	OptimalStart     []int                 `json:"optimal_start"`
	OptimalBench     []int                 `json:"optimal_bench"`
	Captain          int                   `json:"captain"`
	ViceCaptain      int                   `json:"vice_captain"`
	EPTotalCurrent   float64               `json:"ep_total_current"`
	EPTotalOptimal   float64               `json:"ep_total_optimal"`
	EPGainLineup     float64               `json:"ep_gain_lineup"`
	BenchEPTotal     float64               `json:"bench_ep_total"`
	ChipEval         domain.ChipEvaluation `json:"chip_eval"`
	PerPlayerEP      map[int]float64       `json:"per_player_ep"`
}

// PlayerSlot is an expanded lineup entry
type PlayerSlot struct {
	Player        catalog.PlayerRef       `json:"player"`
	Fixture       *catalog.FixtureContext `json:"fixture,omitempty"`
	EP            float64                 `json:"ep"`
	IsCaptain     bool                    `json:"is_captain"`
	IsViceCaptain bool                    `json:"is_vice_captain"`
}

// TransferExpanded is a transfer suggestion with denormalized players
type TransferExpanded struct {
	Out     catalog.PlayerRef `json:"out"`
	In      catalog.PlayerRef `json:"in"`
	Reason  string            `json:"reason"`
	DeltaEP float64           `json:"delta_ep"`
}

// ActionExpanded mirrors domain.Action with ids denormalized to player refs
// and fixture names resolved.
type ActionExpanded struct {
	Type     domain.ActionType  `json:"type"`
	Group    domain.ActionGroup `json:"action_group"`
	Priority int                `json:"priority"`
	BundleID string             `json:"bundle_id,omitempty"`

	InPlayer   *catalog.PlayerRef      `json:"in_player,omitempty"`
	OutPlayer  *catalog.PlayerRef      `json:"out_player,omitempty"`
	EPIn       *float64                `json:"ep_in,omitempty"`
	EPOut      *float64                `json:"ep_out,omitempty"`
	InFixture  *catalog.FixtureContext `json:"in_fixture,omitempty"`
	OutFixture *catalog.FixtureContext `json:"out_fixture,omitempty"`

	Player      *catalog.PlayerRef `json:"player,omitempty"`
	OldPlayer   *catalog.PlayerRef `json:"old_player,omitempty"`
	EPNew       *float64           `json:"ep_new,omitempty"`
	EPOld       *float64           `json:"ep_old,omitempty"`
	CaptainMode domain.Mode        `json:"captain_mode,omitempty"`

	Chip    domain.ChipCode     `json:"chip,omitempty"`
	Details *domain.ChipDetails `json:"details,omitempty"`

	DeltaEP    *float64          `json:"delta_ep,omitempty"`
	ReasonCode domain.ReasonCode `json:"reason_code,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

// PlannerResponse is the full planner/1.1 envelope
type PlannerResponse struct {
	SchemaVersion string      `json:"schema_version"`
	GeneratedAt   string      `json:"generated_at"`
	Meta          PlannerMeta `json:"meta"`
	Data          PlannerData `json:"data"`

	Actions     []domain.Action `json:"actions"`
	Summary     string          `json:"summary"`
	SummaryLong string          `json:"summary_long"`

	TransferSuggestions []domain.TransferSuggestion `json:"transfer_suggestions,omitempty"`

	CurrentExpanded             []PlayerSlot       `json:"current_expanded,omitempty"`
	OptimalExpanded             []PlayerSlot       `json:"optimal_expanded,omitempty"`
	BenchExpanded               []PlayerSlot       `json:"bench_expanded,omitempty"`
	TransferSuggestionsExpanded []TransferExpanded `json:"transfer_suggestions_expanded,omitempty"`
	ActionsExpanded             []ActionExpanded   `json:"actions_expanded,omitempty"`
}

// pruneTransfers drops marginal and duplicate-target suggestions
func pruneTransfers(suggestions []domain.TransferSuggestion) []domain.TransferSuggestion {
	kept := make([]domain.TransferSuggestion, 0, len(suggestions))
	seenIn := map[int]bool{}
	for _, s := range suggestions {
		if s.DeltaEP < minTransferGain || seenIn[s.InPlayer] {
			continue
		}
		seenIn[s.InPlayer] = true
		kept = append(kept, s)
	}
	return kept
}

// expandResponse fills the *_expanded sections from the snapshot catalog
func expandResponse(resp *PlannerResponse, outcome *planning.PlanOutcome) {
	result := outcome.Result
	cat := outcome.Catalog

	fixtureCtx := func(ref *domain.FixtureRef) *catalog.FixtureContext {
		if ref == nil {
			return nil
		}
		ctx := cat.FixtureContext(*ref)
		return &ctx
	}
	slot := func(id int, markArmband bool) PlayerSlot {
		return PlayerSlot{
			Player:        cat.PlayerRef(id),
			Fixture:       fixtureCtx(outcome.Fixtures[id]),
			EP:            result.PerPlayerEP[id],
			IsCaptain:     markArmband && id == result.Captain,
			IsViceCaptain: markArmband && id == result.ViceCaptain,
		}
	}

	for _, id := range result.CurrentStart {
		resp.CurrentExpanded = append(resp.CurrentExpanded, slot(id, true))
	}
	for _, id := range result.OptimalStart {
		resp.OptimalExpanded = append(resp.OptimalExpanded, slot(id, true))
	}
	for _, id := range result.OptimalBench {
		resp.BenchExpanded = append(resp.BenchExpanded, slot(id, false))
	}

	for _, s := range resp.TransferSuggestions {
		resp.TransferSuggestionsExpanded = append(resp.TransferSuggestionsExpanded, TransferExpanded{
			Out:     cat.PlayerRef(s.OutPlayer),
			In:      cat.PlayerRef(s.InPlayer),
			Reason:  s.Reason,
			DeltaEP: s.DeltaEP,
		})
	}

	playerRef := func(id int) *catalog.PlayerRef {
		if id == 0 {
			return nil
		}
		ref := cat.PlayerRef(id)
		return &ref
	}
	for _, act := range resp.Actions {
		resp.ActionsExpanded = append(resp.ActionsExpanded, ActionExpanded{
			Type:        act.Type,
			Group:       act.Group,
			Priority:    act.Priority,
			BundleID:    act.BundleID,
			InPlayer:    playerRef(act.InPlayer),
			OutPlayer:   playerRef(act.OutPlayer),
			EPIn:        act.EPIn,
			EPOut:       act.EPOut,
			InFixture:   fixtureCtx(act.InFixture),
			OutFixture:  fixtureCtx(act.OutFixture),
			Player:      playerRef(act.Player),
			OldPlayer:   playerRef(act.OldPlayer),
			EPNew:       act.EPNew,
			EPOld:       act.EPOld,
			CaptainMode: act.CaptainMode,
			Chip:        act.Chip,
			Details:     act.Details,
			DeltaEP:     act.DeltaEP,
			ReasonCode:  act.ReasonCode,
			Reason:      act.Reason,
		})
	}
}
