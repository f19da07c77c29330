// Package rules holds the knowledge base of team and player adjustments
// applied on top of the market-derived confidence.
package rules

import (
	"fmt"
	"strings"
)

// Fixed adjustments.
const (
	backToBackPenalty = -10
	divisionalPenalty = -3
	reasonSeparator   = " | "
)

// Adjustment is a signed confidence delta with the reasons that produced it.
type Adjustment struct {
	Value   int
	Reasons []string
}

// Reason joins the reasons into one line, empty when no rule fired.
func (a Adjustment) Reason() string {
	return strings.Join(a.Reasons, reasonSeparator)
}

func (a *Adjustment) add(v int, reason string) {
	a.Value += v
	a.Reasons = append(a.Reasons, reason)
}

// Rules answers adjustment queries against a knowledge base.
type Rules struct {
	traps     map[string]TrapTeam
	values    map[string]ValueTeam
	rosters   map[string][]string
	divisions map[string]map[string]string // sport -> team -> division
	history   map[string]map[string]Record // sport -> team -> record
}

// New indexes a knowledge base for lookups.
func New(kb KnowledgeBase) *Rules {
	r := &Rules{
		traps:     make(map[string]TrapTeam, len(kb.TrapTeams)),
		values:    make(map[string]ValueTeam, len(kb.ValueTeams)),
		rosters:   make(map[string][]string, len(kb.StarPlayers)),
		divisions: make(map[string]map[string]string),
		history:   make(map[string]map[string]Record),
	}
	for _, t := range kb.TrapTeams {
		r.traps[t.Team] = t
	}
	for _, v := range kb.ValueTeams {
		r.values[v.Team] = v
	}
	for _, ro := range kb.StarPlayers {
		r.rosters[ro.Team] = ro.Players
	}
	for _, d := range kb.Divisions {
		if r.divisions[d.Sport] == nil {
			r.divisions[d.Sport] = make(map[string]string)
		}
		for _, team := range d.Teams {
			r.divisions[d.Sport][team] = d.Name
		}
	}
	for _, h := range kb.History {
		if r.history[h.Sport] == nil {
			r.history[h.Sport] = make(map[string]Record)
		}
		r.history[h.Sport][h.Team] = h
	}
	return r
}

// IsTrap reports whether the team is on the trap list.
func (r *Rules) IsTrap(team string) bool {
	_, ok := r.traps[team]
	return ok
}

// TeamAdjustment sums the trap, value, injury and back-to-back rules for a
// team. The trap penalty only applies when the team is bet as the favorite.
func (r *Rules) TeamAdjustment(st State, team string, isFavorite bool) Adjustment {
	var adj Adjustment
	if t, ok := r.traps[team]; ok && isFavorite {
		adj.add(t.Penalty, fmt.Sprintf("Trap: %s (%d)", t.Reason, t.Penalty))
	}
	if v, ok := r.values[team]; ok {
		adj.add(v.Bonus, fmt.Sprintf("Value: %s (+%d)", v.Reason, v.Bonus))
	}
	for _, player := range r.rosters[team] {
		status := st.Injuries.Status(player)
		if p := status.Penalty(); p != 0 {
			adj.add(p, fmt.Sprintf("Injury: %s %s (%d)", player, status, p))
		}
	}
	if st.Recent != nil && !st.Today.IsZero() && st.Recent.PlayedOn(st.Today.AddDate(0, 0, -1), team) {
		adj.add(backToBackPenalty, fmt.Sprintf("Back-to-back (%d)", backToBackPenalty))
	}
	return adj
}

// DivisionalAdjustment returns a damping note when both teams share a
// division of the sport.
func (r *Rules) DivisionalAdjustment(teamA, teamB, sport string) Adjustment {
	var adj Adjustment
	divs := r.divisions[sport]
	if divs == nil {
		return adj
	}
	a, okA := divs[teamA]
	b, okB := divs[teamB]
	if okA && okB && a == b {
		adj.add(divisionalPenalty, fmt.Sprintf("Divisional matchup: %s (%d)", a, divisionalPenalty))
	}
	return adj
}

// Record returns the historical record of a team.
func (r *Rules) Record(sport, team string) (Record, bool) {
	rec, ok := r.history[sport][team]
	return rec, ok
}

// Roster returns the key players of a team.
func (r *Rules) Roster(team string) []string {
	return r.rosters[team]
}
