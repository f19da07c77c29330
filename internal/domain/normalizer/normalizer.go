// Package normalizer turns raw odds feed events into candidate bet facts.
package normalizer

import (
	"fmt"
	"time"

	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/odds"
)

// Price windows for each fact kind. All bounds are exclusive.
const (
	defaultFavoriteFloor = -900
	favoriteCeiling      = -130
	underdogMin          = 125
	underdogMax          = 550
	spreadMin            = -14.0
	spreadMax            = -1.0
	valueThreshold       = 10
	heavyFavorite        = -200
)

// Default bookmaker selection.
var (
	DefaultReferenceBooks = []string{"draftkings", "fanduel", "williamhill", "mgm", "bovada"}
	DefaultSharpBook      = "pinnacle"
)

// Fact id suffixes for the non-favorite facts of an event.
const (
	underdogSuffix = "_hr"
	spreadSuffix   = "_spread"
)

// Normalizer extracts favorite, underdog and spread facts from an event.
type Normalizer struct {
	referenceBooks []string
	sharpBook      string
	favoriteFloor  int
	loc            *time.Location
}

// New creates a Normalizer with the default bookmaker priorities.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		referenceBooks: DefaultReferenceBooks,
		sharpBook:      DefaultSharpBook,
		favoriteFloor:  defaultFavoriteFloor,
		loc:            time.Local,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// WithFloor returns a copy of n that uses a different favorite floor.
func (n *Normalizer) WithFloor(price int) *Normalizer {
	cp := *n
	WithFavoriteFloor(price)(&cp)
	return &cp
}

// Normalize returns the facts for one event. Events outside the remainder of
// the local day, or without usable markets, yield nothing.
func (n *Normalizer) Normalize(sport model.Sport, ev model.Event, now time.Time) []model.BetFact {
	if !n.today(ev.CommenceTime, now) {
		return nil
	}
	ref, ok := n.reference(ev)
	if !ok {
		return nil
	}
	sharp, hasSharp := ev.Bookmaker(n.sharpBook)

	var facts []model.BetFact
	if h2h, ok := ref.Market(model.MarketH2H); ok {
		var sharpH2H model.Market
		if hasSharp {
			sharpH2H, _ = sharp.Market(model.MarketH2H)
		}
		if f, ok := n.favorite(sport, ev, h2h, sharpH2H); ok {
			facts = append(facts, f)
		}
		if f, ok := n.underdog(sport, ev, h2h); ok {
			facts = append(facts, f)
		}
	}
	if spreads, ok := ref.Market(model.MarketSpreads); ok {
		if f, ok := n.spread(sport, ev, spreads); ok {
			facts = append(facts, f)
		}
	}
	return facts
}

func (n *Normalizer) today(start, now time.Time) bool {
	local := now.In(n.loc)
	y, m, d := local.Date()
	end := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), n.loc)
	return !start.Before(now) && !start.After(end)
}

func (n *Normalizer) reference(ev model.Event) (model.Bookmaker, bool) {
	for _, key := range n.referenceBooks {
		if b, ok := ev.Bookmaker(key); ok {
			return b, true
		}
	}
	if len(ev.Bookmakers) > 0 {
		return ev.Bookmakers[0], true
	}
	return model.Bookmaker{}, false
}

func (n *Normalizer) favorite(sport model.Sport, ev model.Event, h2h, sharp model.Market) (model.BetFact, bool) {
	for _, o := range h2h.Outcomes {
		if o.Price <= n.favoriteFloor || o.Price >= favoriteCeiling {
			continue
		}
		f := base(sport, ev, ev.ID, model.KindParleyLeg, model.Moneyline(o.Name), o.Price, model.RiskLow)
		if s, ok := sharp.Outcome(o.Name); ok && s.Price != 0 {
			f.SharpPrice = s.Price
			f.SharpDiff = o.Price - s.Price
			f.IsValue = o.Price > s.Price+valueThreshold
		}
		f.Analysis = analysis(f)
		return f, true
	}
	return model.BetFact{}, false
}

func (n *Normalizer) underdog(sport model.Sport, ev model.Event, h2h model.Market) (model.BetFact, bool) {
	for _, o := range h2h.Outcomes {
		if o.Price <= underdogMin || o.Price >= underdogMax {
			continue
		}
		f := base(sport, ev, ev.ID+underdogSuffix, model.KindHighRisk, model.Moneyline(o.Name), o.Price, model.RiskHigh)
		f.Analysis = analysis(f)
		return f, true
	}
	return model.BetFact{}, false
}

func (n *Normalizer) spread(sport model.Sport, ev model.Event, spreads model.Market) (model.BetFact, bool) {
	for _, o := range spreads.Outcomes {
		if o.Point == nil || o.Price == 0 {
			continue
		}
		if p := *o.Point; p <= spreadMin || p >= spreadMax {
			continue
		}
		f := base(sport, ev, ev.ID+spreadSuffix, model.KindStraight, model.Spread(o.Name, *o.Point), o.Price, model.RiskMid)
		f.Analysis = analysis(f)
		return f, true
	}
	return model.BetFact{}, false
}

func base(sport model.Sport, ev model.Event, id string, kind model.FactKind, pick model.Pick, price int, risk model.Risk) model.BetFact {
	key := sport.Key
	if key == "" {
		key = ev.SportKey
	}
	title := sport.Title
	if title == "" {
		title = ev.SportTitle
	}
	return model.BetFact{
		ID:          id,
		EventID:     ev.ID,
		Kind:        kind,
		Sport:       key,
		SportTitle:  title,
		Match:       ev.MatchLabel(),
		HomeTeam:    ev.HomeTeam,
		AwayTeam:    ev.AwayTeam,
		ScheduledAt: ev.CommenceTime,
		Pick:        pick,
		PickLabel:   pick.Label(),
		Odds:        price,
		Risk:        risk,
		IsHome:      pick.Team == ev.HomeTeam,
		Result:      model.ResultPending,
	}
}

func analysis(f model.BetFact) string {
	prob, err := odds.ImpliedProbability(f.Odds)
	if err != nil {
		return ""
	}
	pct := prob * 100
	switch {
	case f.IsValue:
		return fmt.Sprintf("Sharp money: %s is priced at %d by the sharp book against %d here. Implied probability %.1f%%.",
			f.Pick.Team, f.SharpPrice, f.Odds, pct)
	case f.Kind == model.KindParleyLeg && f.Odds < heavyFavorite:
		return fmt.Sprintf("Implied probability %.1f%%. %s has a clear edge in this matchup.", pct, f.Pick.Team)
	case f.Kind == model.KindParleyLeg:
		return fmt.Sprintf("Favorite with a fair price (%.1f%% implied).", pct)
	case f.Kind == model.KindHighRisk:
		return fmt.Sprintf("Surprise pick: the market may be underrating %s (%.1f%% implied).", f.Pick.Team, pct)
	default:
		return fmt.Sprintf("Tight line on %s at %s.", f.Pick.Team, f.PickLabel)
	}
}
