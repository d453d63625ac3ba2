// Package catalog builds lookup indexes over one bootstrap snapshot and
// denormalizes player/team/fixture ids into human-readable references.
package catalog

import (
	"gwplanner/internal/clients/fpl"
	"gwplanner/internal/modules/planning/domain"
	"gwplanner/internal/modules/projections"
)

// PlayerRef is a denormalized player view for expanded payloads
type PlayerRef struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	TeamID       int     `json:"team_id"`
	TeamName     string  `json:"team_name"`
	Position     string  `json:"position"`
	NowCost      int     `json:"now_cost"`
	OwnershipPct float64 `json:"ownership_pct"`
}

// FixtureContext is a denormalized fixture view for expanded payloads
type FixtureContext struct {
	OpponentTeamID   int    `json:"opponent_team_id"`
	OpponentTeamName string `json:"opponent_team_name"`
	OpponentStrength int    `json:"opponent_strength"`
	WasHome          bool   `json:"was_home"`
}

// NamesIndexPlayer is one entry of the id-to-name index
type NamesIndexPlayer struct {
	Name     string `json:"name"`
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
	Position string `json:"position"`
}

// NamesIndex maps player and team ids to display names
type NamesIndex struct {
	Players map[int]NamesIndexPlayer `json:"players"`
	Teams   map[int]string           `json:"teams"`
}

// Catalog indexes one bootstrap snapshot for id lookups
type Catalog struct {
	elements map[int]fpl.Element
	teams    map[int]fpl.Team
	events   []fpl.Event
}

// New indexes the given bootstrap payload
func New(boot *fpl.Bootstrap) *Catalog {
	c := &Catalog{
		elements: make(map[int]fpl.Element, len(boot.Elements)),
		teams:    make(map[int]fpl.Team, len(boot.Teams)),
		events:   boot.Events,
	}
	for _, el := range boot.Elements {
		c.elements[el.ID] = el
	}
	for _, tm := range boot.Teams {
		c.teams[tm.ID] = tm
	}
	return c
}

// Element returns the raw bootstrap element for a player id
func (c *Catalog) Element(id int) (fpl.Element, bool) {
	el, ok := c.elements[id]
	return el, ok
}

// Elements returns all indexed elements
func (c *Catalog) Elements() map[int]fpl.Element {
	return c.elements
}

// Team returns the club for a team id
func (c *Catalog) Team(id int) (fpl.Team, bool) {
	tm, ok := c.teams[id]
	return tm, ok
}

// Ownership returns the player's selected-by percentage, 0 when unknown
func (c *Catalog) Ownership(id int) float64 {
	el, ok := c.elements[id]
	if !ok {
		return 0
	}
	return projections.ParseStat(el.SelectedByPercent)
}

// PlayerRef denormalizes a player id. Unknown ids yield a ref carrying just
// the id, so expanded payloads degrade instead of erroring.
func (c *Catalog) PlayerRef(id int) PlayerRef {
	el, ok := c.elements[id]
	if !ok {
		return PlayerRef{ID: id}
	}
	ref := PlayerRef{
		ID:           el.ID,
		Name:         el.WebName,
		TeamID:       el.Team,
		Position:     string(domain.PositionFromElementType(el.ElementType)),
		NowCost:      el.NowCost,
		OwnershipPct: projections.ParseStat(el.SelectedByPercent),
	}
	if tm, ok := c.teams[el.Team]; ok {
		ref.TeamName = tm.Name
	}
	return ref
}

// FixtureContext denormalizes a fixture reference with the opponent's name
func (c *Catalog) FixtureContext(ref domain.FixtureRef) FixtureContext {
	ctx := FixtureContext{
		OpponentTeamID:   ref.OpponentTeamID,
		OpponentStrength: ref.OpponentStrength,
		WasHome:          ref.WasHome,
	}
	if tm, ok := c.teams[ref.OpponentTeamID]; ok {
		ctx.OpponentTeamName = tm.Name
	}
	return ctx
}

// Names maps player ids to web names, used for plan summaries
func (c *Catalog) Names() map[int]string {
	names := make(map[int]string, len(c.elements))
	for id, el := range c.elements {
		names[id] = el.WebName
	}
	return names
}

// NamesIndex builds the full id-to-name index for players and teams
func (c *Catalog) NamesIndex() NamesIndex {
	idx := NamesIndex{
		Players: make(map[int]NamesIndexPlayer, len(c.elements)),
		Teams:   make(map[int]string, len(c.teams)),
	}
	for id, el := range c.elements {
		entry := NamesIndexPlayer{
			Name:     el.WebName,
			TeamID:   el.Team,
			Position: string(domain.PositionFromElementType(el.ElementType)),
		}
		if tm, ok := c.teams[el.Team]; ok {
			entry.TeamName = tm.Name
		}
		idx.Players[id] = entry
	}
	for id, tm := range c.teams {
		idx.Teams[id] = tm.Name
	}
	return idx
}

// CurrentGW returns the event flagged is_current, if any
func (c *Catalog) CurrentGW() (int, bool) {
	for _, ev := range c.events {
		if ev.IsCurrent {
			return ev.ID, true
		}
	}
	return 0, false
}

// LastLiveGW returns the highest gameweek that is current or finished.
// This is the starting point when walking back for a manager's latest picks.
func (c *Catalog) LastLiveGW() (int, bool) {
	last := 0
	for _, ev := range c.events {
		if (ev.IsCurrent || ev.Finished) && ev.ID > last {
			last = ev.ID
		}
	}
	return last, last > 0
}
