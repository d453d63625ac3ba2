package domain

import "fmt"

// InvalidSquadCompositionError indicates the 15-player squad does not match
// the fixed 2 GK / 5 DEF / 5 MID / 3 FWD composition. Fatal for the run.
type InvalidSquadCompositionError struct {
	Reason string
}

func (e *InvalidSquadCompositionError) Error() string {
	return fmt.Sprintf("invalid squad composition: %s", e.Reason)
}

// NoLegalFormationError indicates no in-bounds formation could field 11
// starters from the squad. Unreachable with a valid composition, but kept
// as a distinct error so the guarantee is checked rather than assumed.
type NoLegalFormationError struct{}

func (e *NoLegalFormationError) Error() string {
	return "no legal formation can be fielded from this squad"
}

// InsufficientDataError indicates a player referenced by the current lineup
// is missing from the planning inputs, or the lineup itself is malformed.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for planning: %s", e.Reason)
}

// InvalidBankOverrideError indicates a bank_override value that cannot be
// used (negative). Non-fatal: the planner falls back to the computed bank.
type InvalidBankOverrideError struct {
	Value int
}

func (e *InvalidBankOverrideError) Error() string {
	return fmt.Sprintf("invalid bank override %d: must be non-negative", e.Value)
}
