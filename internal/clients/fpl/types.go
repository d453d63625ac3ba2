package fpl

// Element is a player entry from bootstrap-static.
// Note: the FPL API returns some numeric-looking fields as strings
// (form, ict_index, selected_by_percent).
type Element struct {
	ID                int    `json:"id"`
	WebName           string `json:"web_name"`
	NowCost           int    `json:"now_cost"`
	Form              string `json:"form"`
	ICTIndex          string `json:"ict_index"`
	Minutes           int    `json:"minutes"`
	Team              int    `json:"team"`
	ElementType       int    `json:"element_type"`
	SelectedByPercent string `json:"selected_by_percent"`
}

// Team is a club entry from bootstrap-static
type Team struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Strength int    `json:"strength"`
}

// Event is a gameweek entry from bootstrap-static
type Event struct {
	ID        int  `json:"id"`
	IsCurrent bool `json:"is_current"`
	Finished  bool `json:"finished"`
}

// Bootstrap is the slice of bootstrap-static this service uses
type Bootstrap struct {
	Events   []Event   `json:"events"`
	Teams    []Team    `json:"teams"`
	Elements []Element `json:"elements"`
}

// Fixture is a match entry. Event is nil for unscheduled fixtures.
type Fixture struct {
	ID    int  `json:"id"`
	Event *int `json:"event"`
	TeamH int  `json:"team_h"`
	TeamA int  `json:"team_a"`
}

// Pick is one squad slot in a manager's gameweek picks
type Pick struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

// EntryHistory carries the manager's bank and team value in 0.1m units
type EntryHistory struct {
	Bank  int `json:"bank"`
	Value int `json:"value"`
}

// ManagerPicks is the response of entry/{tid}/event/{gw}/picks/
type ManagerPicks struct {
	Picks        []Pick       `json:"picks"`
	EntryHistory EntryHistory `json:"entry_history"`
}
