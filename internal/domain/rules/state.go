package rules

import (
	"slices"
	"strings"
	"time"

	"github.com/okian/vstrike/internal/domain/model"
)

// InjuryStatus is a player's availability.
type InjuryStatus string

// Injury statuses. Anything else counts as active.
const (
	StatusOut          InjuryStatus = "OUT"
	StatusDoubtful     InjuryStatus = "DOUBTFUL"
	StatusQuestionable InjuryStatus = "QUESTIONABLE"
	StatusProbable     InjuryStatus = "PROBABLE"
	StatusActive       InjuryStatus = "ACTIVE"
)

// ParseInjuryStatus normalizes a feed status string.
func ParseInjuryStatus(s string) InjuryStatus {
	switch st := InjuryStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusOut, StatusDoubtful, StatusQuestionable, StatusProbable:
		return st
	default:
		return StatusActive
	}
}

// Penalty returns the confidence penalty for the status.
func (s InjuryStatus) Penalty() int {
	switch s {
	case StatusOut:
		return -25
	case StatusDoubtful:
		return -15
	case StatusQuestionable:
		return -8
	case StatusProbable:
		return -3
	default:
		return 0
	}
}

// Injuries maps player name to status. Absent players are active.
type Injuries map[string]InjuryStatus

// Status returns the player's status.
func (i Injuries) Status(player string) InjuryStatus {
	if st, ok := i[player]; ok {
		return st
	}
	return StatusActive
}

const recentWindowDays = 3

// RecentGames maps a day key to the teams that played that day.
type RecentGames map[string][]string

// Record adds teams to today's entry without duplicates and prunes days that
// fell out of the rolling window.
func (r RecentGames) Record(today time.Time, teams ...string) {
	day := today.Format(model.DayLayout)
	for _, t := range teams {
		if t != "" && !slices.Contains(r[day], t) {
			r[day] = append(r[day], t)
		}
	}
	cutoff := today.AddDate(0, 0, -recentWindowDays).Format(model.DayLayout)
	for k := range r {
		if k < cutoff {
			delete(r, k)
		}
	}
}

// PlayedOn reports whether team played on the given day.
func (r RecentGames) PlayedOn(day time.Time, team string) bool {
	return slices.Contains(r[day.Format(model.DayLayout)], team)
}

// State is the mutable context consulted by team adjustments.
type State struct {
	Today    time.Time
	Injuries Injuries
	Recent   RecentGames
}
