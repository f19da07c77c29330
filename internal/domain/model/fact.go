package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Risk buckets a recommendation.
type Risk string

// Risk levels.
const (
	RiskLow  Risk = "low"
	RiskMid  Risk = "mid"
	RiskHigh Risk = "high"
)

// Result is the grading state of a fact or parley card.
type Result string

// Result values. PENDING is the only state that may change.
const (
	ResultPending Result = "PENDING"
	ResultWin     Result = "WIN"
	ResultLoss    Result = "LOSS"
)

// Resolved reports whether the result is terminal.
func (r Result) Resolved() bool {
	return r == ResultWin || r == ResultLoss
}

// ParseResult converts user input into a Result.
func ParseResult(s string) (Result, bool) {
	switch Result(strings.ToUpper(strings.TrimSpace(s))) {
	case ResultWin:
		return ResultWin, true
	case ResultLoss:
		return ResultLoss, true
	case ResultPending:
		return ResultPending, true
	default:
		return "", false
	}
}

// FactKind says how a fact was derived from an event.
type FactKind string

// Fact kinds.
const (
	KindParleyLeg FactKind = "parley_leg"
	KindHighRisk  FactKind = "high_risk"
	KindStraight  FactKind = "straight"
)

// PickKind is the market a pick was taken from.
type PickKind string

// Pick kinds.
const (
	PickMoneyline PickKind = "moneyline"
	PickSpread    PickKind = "spread"
)

// Pick is the side a fact recommends. Points is only meaningful for spreads.
type Pick struct {
	Kind   PickKind `json:"kind"`
	Team   string   `json:"team"`
	Points float64  `json:"points,omitempty"`
}

// Moneyline builds a moneyline pick on team.
func Moneyline(team string) Pick {
	return Pick{Kind: PickMoneyline, Team: team}
}

// Spread builds a spread pick on team at the given handicap.
func Spread(team string, points float64) Pick {
	return Pick{Kind: PickSpread, Team: team, Points: points}
}

// Label renders the pick for display, e.g. "Lakers ML" or "Celtics -3.5".
func (p Pick) Label() string {
	if p.Kind == PickSpread {
		pts := strconv.FormatFloat(p.Points, 'f', -1, 64)
		if p.Points > 0 {
			pts = "+" + pts
		}
		return p.Team + " " + pts
	}
	return p.Team + " ML"
}

// BetFact is a single scored recommendation.
type BetFact struct {
	ID            string          `json:"id"`
	EventID       string          `json:"event_id"`
	Kind          FactKind        `json:"type"`
	Sport         string          `json:"sport"`
	SportTitle    string          `json:"sport_title,omitempty"`
	Match         string          `json:"match"`
	HomeTeam      string          `json:"home_team"`
	AwayTeam      string          `json:"away_team"`
	ScheduledAt   time.Time       `json:"scheduled_at"`
	Pick          Pick            `json:"pick"`
	PickLabel     string          `json:"pick_label"`
	Odds          int             `json:"odds"`
	Risk          Risk            `json:"risk"`
	IsHome        bool            `json:"is_home"`
	IsValue       bool            `json:"is_value"`
	SharpPrice    int             `json:"sharp_price,omitempty"`
	SharpDiff     int             `json:"sharp_diff"`
	Confidence    int             `json:"confidence"`
	Stake         decimal.Decimal `json:"suggested_stake"`
	Analysis      string          `json:"analysis,omitempty"`
	Notes         []string        `json:"notes,omitempty"`
	Result        Result          `json:"result"`
	DateGenerated string          `json:"date_generated,omitempty"`
}

// IsFavorite reports whether the pick backs the market favorite.
func (f BetFact) IsFavorite() bool {
	if f.Pick.Kind == PickSpread {
		return f.Pick.Points < 0
	}
	return f.Odds < 0
}

// Resolve moves a pending fact to a terminal result. It reports whether
// anything changed; resolved facts are never overwritten.
func (f *BetFact) Resolve(r Result) bool {
	if f.Result.Resolved() || !r.Resolved() {
		return false
	}
	f.Result = r
	return true
}

// ParleySubtype distinguishes the two daily cards.
type ParleySubtype string

// Parley subtypes.
const (
	ParleySafe ParleySubtype = "safe"
	ParleyRisk ParleySubtype = "risk"
)

// Parley card identifiers.
const (
	SafeParleyID     = "daily_safe_parley"
	SurpriseParleyID = "daily_surprise_parley"
)

// ParleyCard is a multi-leg combination. Legs are embedded copies of facts.
type ParleyCard struct {
	ID            string          `json:"id"`
	Subtype       ParleySubtype   `json:"subtype"`
	Title         string          `json:"title"`
	Risk          Risk            `json:"risk"`
	Odds          int             `json:"odds"`
	Legs          []BetFact       `json:"legs"`
	Stake         decimal.Decimal `json:"suggested_stake"`
	Analysis      string          `json:"analysis,omitempty"`
	Result        Result          `json:"result"`
	DateGenerated string          `json:"date_generated,omitempty"`
}

// RollUp derives the card result from its legs: any losing leg loses the
// card, all winning legs win it, otherwise it stays pending. It reports
// whether the card result changed.
func (c *ParleyCard) RollUp() bool {
	if c.Result.Resolved() || len(c.Legs) == 0 {
		return false
	}
	wins := 0
	for _, l := range c.Legs {
		switch l.Result {
		case ResultLoss:
			c.Result = ResultLoss
			return true
		case ResultWin:
			wins++
		}
	}
	if wins == len(c.Legs) {
		c.Result = ResultWin
		return true
	}
	return false
}

// DailySet is the persisted recommendation record of one calendar day.
type DailySet struct {
	Date        string       `json:"date"`
	GeneratedAt time.Time    `json:"generated_at"`
	Parleys     []ParleyCard `json:"parleys"`
	Facts       []BetFact    `json:"facts"`
}

// Empty reports whether the set carries no recommendations.
func (s *DailySet) Empty() bool {
	return s == nil || (len(s.Facts) == 0 && len(s.Parleys) == 0)
}

// Fact returns a pointer to the individual fact with the given id.
func (s *DailySet) Fact(id string) *BetFact {
	for i := range s.Facts {
		if s.Facts[i].ID == id {
			return &s.Facts[i]
		}
	}
	return nil
}

// Parley returns a pointer to the card with the given id.
func (s *DailySet) Parley(id string) *ParleyCard {
	for i := range s.Parleys {
		if s.Parleys[i].ID == id {
			return &s.Parleys[i]
		}
	}
	return nil
}
