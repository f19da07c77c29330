// Package feed builds the once-per-day recommendation set.
package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/normalizer"
	"github.com/okian/vstrike/internal/domain/parley"
	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/okian/vstrike/internal/domain/scoring"
	"github.com/okian/vstrike/internal/domain/staking"
	"github.com/okian/vstrike/pkg/logger"
	"github.com/shopspring/decimal"
)

// Defaults.
const (
	defaultMaxPerSport = 4
	defaultBankroll    = "20.00"
)

// State is the generation state of a day.
type State string

// Generation states.
const (
	StateNotGenerated State = "not_generated"
	StateGenerating   State = "generating"
	StatePersisted    State = "persisted"
	StateEmpty        State = "empty"
)

// Outcome is the result of a build.
type Outcome struct {
	State State
	Set   *model.DailySet
	// Reused is true when an existing set was returned untouched.
	Reused bool
	// Candidates is the number of facts scored in this run.
	Candidates int
}

// Builder orchestrates normalization, scoring, sizing and selection.
type Builder struct {
	fetcher     Fetcher
	store       Store
	sports      []model.Sport
	bankroll    decimal.Decimal
	legs        int
	dynamicLegs bool
	maxPerSport int
	loc         *time.Location
	normalizer  *normalizer.Normalizer
	rules       *rules.Rules
	sizer       *staking.Sizer
	log         logger.Logger
}

// NewBuilder creates a Builder on top of a fetcher and a store.
func NewBuilder(fetcher Fetcher, store Store, opts ...Option) *Builder {
	b := &Builder{
		fetcher:     fetcher,
		store:       store,
		bankroll:    decimal.RequireFromString(defaultBankroll),
		legs:        parley.DefaultLegs,
		maxPerSport: defaultMaxPerSport,
		loc:         time.Local,
		normalizer:  normalizer.New(),
		rules:       rules.New(rules.DefaultKnowledgeBase()),
		sizer:       staking.NewSizer(),
		log:         logger.Get().Named("feed"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Date returns the day key of now in the builder's time zone.
func (b *Builder) Date(now time.Time) string {
	return now.In(b.loc).Format(model.DayLayout)
}

// Build returns today's set, generating and persisting it on first call.
// An existing non-empty set is returned unchanged. A day with no qualifying
// facts yields StateEmpty and is not persisted.
func (b *Builder) Build(ctx context.Context, now time.Time) (*Outcome, error) {
	date := b.Date(now)
	existing, ok, err := b.store.LoadSet(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load set %s: %w", date, err)
	}
	if ok && !existing.Empty() {
		return &Outcome{State: StatePersisted, Set: existing, Reused: true}, nil
	}

	b.log.Info(ctx, "generating daily set", logger.String("date", date), logger.String("state", string(StateGenerating)))
	all, bankroll, err := b.collect(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		b.log.Warn(ctx, "no qualifying recommendations", logger.String("date", date))
		return &Outcome{State: StateEmpty, Set: &model.DailySet{Date: date}}, nil
	}

	set := b.assemble(ctx, all, bankroll, date, now)
	if err := b.store.SaveSet(ctx, set); err != nil {
		return nil, fmt.Errorf("save set %s: %w", date, err)
	}
	b.log.Info(ctx, "daily set persisted",
		logger.String("date", date),
		logger.Int("facts", len(set.Facts)),
		logger.Int("parleys", len(set.Parleys)),
		logger.Int("candidates", len(all)))
	return &Outcome{State: StatePersisted, Set: set, Candidates: len(all)}, nil
}

// collect fetches every sport serially and returns the scored facts sorted
// by descending confidence, together with the bankroll they were sized on.
func (b *Builder) collect(ctx context.Context, now time.Time) ([]model.BetFact, decimal.Decimal, error) {
	local := now.In(b.loc)
	params, err := b.store.Params(ctx)
	if err != nil {
		b.log.Warn(ctx, "using default strategy params", logger.Error(err))
		params = model.DefaultParams()
	}
	injuries, err := b.store.Injuries(ctx)
	if err != nil {
		b.log.Warn(ctx, "injury map unavailable", logger.Error(err))
	}
	recent, err := b.store.RecentGames(ctx)
	if err != nil || recent == nil {
		recent = rules.RecentGames{}
	}
	bankroll, err := b.store.Bankroll(ctx, b.bankroll)
	if err != nil {
		bankroll = b.bankroll
	}

	norm := b.normalizer.WithFloor(params.FavOddsMax)
	scorer := scoring.NewConfidenceScorer(scoring.WithParams(params))
	st := rules.State{Today: local, Injuries: injuries, Recent: recent}

	var all []model.BetFact
	for _, sport := range b.sports {
		if err := ctx.Err(); err != nil {
			return nil, bankroll, fmt.Errorf("generation interrupted: %w", err)
		}
		events := b.fetcher.FetchOdds(ctx, sport.Key)
		for _, ev := range events {
			if sameDay(ev.CommenceTime.In(b.loc), local) {
				recent.Record(local, ev.HomeTeam, ev.AwayTeam)
			}
			facts := norm.Normalize(sport, ev, now)
			if len(facts) == 0 {
				continue
			}
			div := b.rules.DivisionalAdjustment(ev.HomeTeam, ev.AwayTeam, sport.Key)
			for _, f := range facts {
				b.annotate(&f, st, scorer, div, bankroll)
				all = append(all, f)
			}
		}
	}
	if err := b.store.SaveRecentGames(ctx, recent); err != nil {
		b.log.Warn(ctx, "failed to save recent games", logger.Error(err))
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Confidence > all[j].Confidence })
	return all, bankroll, nil
}

func (b *Builder) annotate(f *model.BetFact, st rules.State, scorer *scoring.ConfidenceScorer, div rules.Adjustment, bankroll decimal.Decimal) {
	adj := b.rules.TeamAdjustment(st, f.Pick.Team, f.IsFavorite())
	res := scorer.Score(scoring.Input{Fact: *f, Adjustment: adj.Value})
	f.Confidence = res.Confidence
	f.Stake = b.sizer.Stake(bankroll, f.Confidence)
	f.Notes = append(f.Notes, adj.Reasons...)
	f.Notes = append(f.Notes, div.Reasons...)
	if rec, ok := b.rules.Record(f.Sport, f.Pick.Team); ok {
		f.Notes = append(f.Notes, fmt.Sprintf("Record: %d-%d (%.0f%%)", rec.Wins, rec.Losses, rec.WinRate()*100))
	}
}

func (b *Builder) assemble(ctx context.Context, all []model.BetFact, bankroll decimal.Decimal, date string, now time.Time) *model.DailySet {
	var low, high []model.BetFact
	for _, f := range all {
		switch f.Risk {
		case model.RiskLow:
			low = append(low, f)
		case model.RiskHigh:
			high = append(high, f)
		}
	}

	set := &model.DailySet{Date: date, GeneratedAt: now.UTC()}
	legs := b.legs
	if b.dynamicLegs {
		legs = parley.OptimalLegs(low, b.rules.IsTrap)
	}
	if card, ok := b.card(ctx, model.ParleySafe, parley.Select(low, legs), bankroll, date); ok {
		set.Parleys = append(set.Parleys, card)
	}
	if card, ok := b.card(ctx, model.ParleyRisk, parley.Select(high, b.legs), bankroll, date); ok {
		set.Parleys = append(set.Parleys, card)
	}

	perSport := make(map[string]int)
	for _, f := range all {
		if f.Risk == model.RiskHigh || perSport[f.Sport] >= b.maxPerSport {
			continue
		}
		perSport[f.Sport]++
		set.Facts = append(set.Facts, stamp(f, date))
	}
	return set
}

func (b *Builder) card(ctx context.Context, subtype model.ParleySubtype, legs []model.BetFact, bankroll decimal.Decimal, date string) (model.ParleyCard, bool) {
	if len(legs) == 0 {
		return model.ParleyCard{}, false
	}
	price, err := parley.Odds(legs)
	if err != nil {
		b.log.Warn(ctx, "skipping parley", logger.String("subtype", string(subtype)), logger.Error(err))
		return model.ParleyCard{}, false
	}
	card := model.ParleyCard{
		ID:            model.SafeParleyID,
		Subtype:       subtype,
		Title:         "Smart Parley",
		Risk:          model.RiskLow,
		Odds:          price,
		Result:        model.ResultPending,
		DateGenerated: date,
	}
	if subtype == model.ParleyRisk {
		card.ID = model.SurpriseParleyID
		card.Title = "Surprise Parley"
		card.Risk = model.RiskHigh
	}
	sports := make(map[string]struct{})
	for _, l := range legs {
		card.Legs = append(card.Legs, stamp(l, date))
		sports[l.Sport] = struct{}{}
	}
	mean := parley.MeanConfidence(legs)
	card.Stake = b.sizer.Stake(bankroll, mean)
	card.Analysis = fmt.Sprintf("%d legs across %d sports at %+d, mean confidence %d.", len(legs), len(sports), price, mean)
	return card, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func stamp(f model.BetFact, date string) model.BetFact {
	f.Result = model.ResultPending
	f.DateGenerated = date
	return f
}
