// Package model contains domain models passed between layers.
package model

import "time"

// DayLayout is the calendar-day key format used for daily records.
const DayLayout = "2006-01-02"

// Market keys returned by the odds feed.
const (
	MarketH2H     = "h2h"
	MarketSpreads = "spreads"
)

// Sport identifies a league polled from the odds feed.
type Sport struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Event is one scheduled game as returned by the odds feed.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key,omitempty"`
	SportTitle   string      `json:"sport_title,omitempty"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker carries the markets one sportsbook posts for an event.
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title,omitempty"`
	Markets []Market `json:"markets"`
}

// Market is a single betting market (moneyline or spread) of a bookmaker.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one side of a market. Point is set for spread markets only.
type Outcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// Bookmaker returns the bookmaker with the given key.
func (e Event) Bookmaker(key string) (Bookmaker, bool) {
	for _, b := range e.Bookmakers {
		if b.Key == key {
			return b, true
		}
	}
	return Bookmaker{}, false
}

// Market returns the market with the given key.
func (b Bookmaker) Market(key string) (Market, bool) {
	for _, m := range b.Markets {
		if m.Key == key {
			return m, true
		}
	}
	return Market{}, false
}

// Outcome returns the outcome for the named side.
func (m Market) Outcome(name string) (Outcome, bool) {
	for _, o := range m.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Opponent returns the name of the other side in a two-way market.
func (e Event) Opponent(team string) string {
	if team == e.HomeTeam {
		return e.AwayTeam
	}
	return e.HomeTeam
}

// MatchLabel renders the "Home vs Away" label used on facts.
func (e Event) MatchLabel() string {
	return e.HomeTeam + " vs " + e.AwayTeam
}
