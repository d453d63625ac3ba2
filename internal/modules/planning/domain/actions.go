package domain

// SchemaVersion identifies the planner response contract
const SchemaVersion = "planner/1.1"

// ActionType enumerates the closed set of action variants
type ActionType string

const (
	ActionSwap       ActionType = "swap"
	ActionSetCaptain ActionType = "set_captain"
	ActionSetVice    ActionType = "set_vice"
	ActionChip       ActionType = "chip"
)

// ActionGroup buckets actions for ordering: lineup before captaincy before chips
type ActionGroup string

const (
	GroupLineup    ActionGroup = "lineup"
	GroupCaptaincy ActionGroup = "captaincy"
	GroupChip      ActionGroup = "chip"
)

// Priority bands per group. Swaps count up from PrioritySwapBase so their
// relative order survives sorting by priority alone.
const (
	PrioritySwapBase = 10
	PriorityCaptain  = 50
	PriorityVice     = 60
	PriorityChipBase = 90
)

// ReasonCode is a machine-readable explanation attached to every action
type ReasonCode string

const (
	ReasonHigherEP            ReasonCode = "higher_ep"
	ReasonHighestCaptainScore ReasonCode = "highest_captain_score"
	ReasonSecondBestCaptain   ReasonCode = "second_best_captain"
	ReasonBelowThreshold      ReasonCode = "below_threshold"
)

// ChipCode names a chip, or ChipNone when no chip clears its threshold
type ChipCode string

const (
	ChipNone          ChipCode = "NONE"
	ChipBenchBoost    ChipCode = "bench_boost"
	ChipTripleCaptain ChipCode = "triple_captain"
)

// Chip activation thresholds in expected points
const (
	BenchBoostThreshold    = 12.0
	TripleCaptainThreshold = 4.0
)

// ChipDetails carries both chip evaluations on a chip action so callers can
// see the margin even for the chip that was not recommended.
type ChipDetails struct {
	BenchBoostGain         float64 `json:"bench_boost_gain"`
	TripleCaptainGain      float64 `json:"triple_captain_gain"`
	BenchBoostThreshold    float64 `json:"bench_boost_threshold"`
	TripleCaptainThreshold float64 `json:"triple_captain_threshold"`
}

// Action is one step of the recommended plan. The populated fields depend on
// Type: swap uses the in/out pairs, set_captain and set_vice use player and
// old_player, chip uses chip and details. Unused fields are omitted from JSON.
type Action struct {
	Type     ActionType  `json:"type"`
	Group    ActionGroup `json:"action_group"`
	Priority int         `json:"priority"`
	BundleID string      `json:"bundle_id,omitempty"`

	InPlayer   int         `json:"in_player,omitempty"`
	OutPlayer  int         `json:"out_player,omitempty"`
	EPIn       *float64    `json:"ep_in,omitempty"`
	EPOut      *float64    `json:"ep_out,omitempty"`
	InFixture  *FixtureRef `json:"in_fixture,omitempty"`
	OutFixture *FixtureRef `json:"out_fixture,omitempty"`

	Player      int      `json:"player,omitempty"`
	OldPlayer   int      `json:"old_player,omitempty"`
	EPNew       *float64 `json:"ep_new,omitempty"`
	EPOld       *float64 `json:"ep_old,omitempty"`
	CaptainMode Mode     `json:"captain_mode,omitempty"`

	Chip    ChipCode     `json:"chip,omitempty"`
	Details *ChipDetails `json:"details,omitempty"`

	DeltaEP *float64 `json:"delta_ep,omitempty"`

	// ReasonCode is absent on a chip action whose gain clears its threshold
	ReasonCode ReasonCode `json:"reason_code,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

// TransferSuggestion is a budget-legal upgrade of one squad player for one
// player outside the squad, at the same position. Costs are in 0.1m units.
type TransferSuggestion struct {
	OutPlayer  int         `json:"out_element"`
	InPlayer   int         `json:"in_element"`
	EPOut      float64     `json:"ep_out"`
	EPIn       float64     `json:"ep_in"`
	DeltaEP    float64     `json:"delta_ep"`
	CostOut    int         `json:"cost_out"`
	CostIn     int         `json:"cost_in"`
	Priority   int         `json:"priority"`
	BundleID   string      `json:"bundle_id"`
	Reason     string      `json:"reason"`
	OutFixture *FixtureRef `json:"out_fixture,omitempty"`
	InFixture  *FixtureRef `json:"in_fixture,omitempty"`
}

// ChipEvaluation reports the projected gain of each chip for the gameweek
type ChipEvaluation struct {
	BenchBoostGain    float64 `json:"bench_boost_gain"`
	TripleCaptainGain float64 `json:"triple_captain_gain"`
}

// PlannerResult is the full outcome of one planning run. All EP-bearing
// fields are rounded to 2 decimal places exactly once, when the result is
// composed; intermediate engine math runs at full precision.
type PlannerResult struct {
	GW               int     `json:"gw"`
	FormationCurrent string  `json:"formation_current"`
	FormationOptimal string  `json:"formation_optimal"`
	CurrentStart     []int   `json:"current_start"`
	CurrentBench     []int   `json:"current_bench"`
	OptimalStart     []int   `json:"optimal_start"`
	OptimalBench     []int   `json:"optimal_bench"`
	Captain          int     `json:"captain"`
	ViceCaptain      int     `json:"vice_captain"`
	EPTotalCurrent   float64 `json:"ep_total_current"`
	EPTotalOptimal   float64 `json:"ep_total_optimal"`
	EPGainLineup     float64 `json:"ep_gain_lineup"`
	BenchEPTotal     float64 `json:"bench_ep_total"`

	ChipEvaluation ChipEvaluation  `json:"chip_evaluation"`
	PerPlayerEP    map[int]float64 `json:"per_player_ep"`

	Actions             []Action             `json:"actions"`
	TransferSuggestions []TransferSuggestion `json:"transfer_suggestions,omitempty"`

	Summary     string `json:"summary"`
	SummaryLong string `json:"summary_long"`

	BankUsed            int  `json:"bank_used"`
	BankOverrideApplied bool `json:"bank_override_applied"`
}
