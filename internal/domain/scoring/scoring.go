// Package scoring computes the bounded confidence score of a bet fact.
package scoring

import "github.com/okian/vstrike/internal/domain/model"

// Score bounds and fixed factor weights.
const (
	baseScore = 50
	minScore  = 10
	maxScore  = 100

	valueEdgeCap = 20

	sweetSpotBonus = 15 // -200 < price < -130
	solidFavBonus  = 10 // -300 < price < -200
	heavyFavBonus  = 5  // price <= -300

	lightDogPenalty    = -10 // 0 < price <= 150
	riskyDogPenalty    = -30 // 250 < price <= 350
	longshotDogPenalty = -40 // price > 350

	midSpreadBonus = 3
)

// Option applies a configuration option to the ConfidenceScorer.
type Option func(*ConfidenceScorer)

// WithParams overrides the tunable weights.
func WithParams(p model.Params) Option {
	return func(s *ConfidenceScorer) {
		s.params = p
	}
}

// Input is a fact plus the rule adjustment for its team.
type Input struct {
	Fact       model.BetFact
	Adjustment int
}

// Factor is one named contribution to a score.
type Factor struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Result contains the clamped confidence and the factors that produced it.
type Result struct {
	Confidence int
	Factors    []Factor
}

// Scorer computes a confidence from an input.
type Scorer interface {
	Score(in Input) Result
}

// ConfidenceScorer is the additive market-and-rules heuristic.
type ConfidenceScorer struct {
	params model.Params
}

// NewConfidenceScorer creates a scorer with the default strategy params.
func NewConfidenceScorer(opts ...Option) *ConfidenceScorer {
	s := &ConfidenceScorer{params: model.DefaultParams()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Params returns the weights in use.
func (s *ConfidenceScorer) Params() model.Params {
	return s.params
}

// Score computes the confidence for a fact. All factors are additive and the
// total is clamped to [10, 100].
func (s *ConfidenceScorer) Score(in Input) Result {
	f := in.Fact
	res := Result{}
	total := baseScore
	add := func(name string, pts int) {
		if pts == 0 {
			return
		}
		total += pts
		res.Factors = append(res.Factors, Factor{Name: name, Points: pts})
	}

	if f.IsValue && f.SharpDiff > 0 {
		add("value_edge", min(f.SharpDiff, valueEdgeCap))
	}

	price := f.Odds
	switch {
	case price < -130 && price > -200:
		add("sweet_spot", sweetSpotBonus)
	case price < -200 && price > -300:
		add("solid_favorite", solidFavBonus)
	case price <= -300:
		add("heavy_favorite", heavyFavBonus)
	}

	if f.IsHome {
		add("home", s.params.HomeBonus)
	}

	switch {
	case price > 350:
		add("longshot", longshotDogPenalty)
	case price > 250:
		add("risky_underdog", riskyDogPenalty)
	case price > 150:
		add("moderate_underdog", s.params.ModerateDogPenalty)
	case price > 0:
		add("light_underdog", lightDogPenalty)
	}

	switch f.Risk {
	case model.RiskHigh:
		add("high_risk", s.params.HighRiskPenalty)
	case model.RiskMid:
		if f.Kind == model.KindStraight {
			add("spread", midSpreadBonus)
		}
	case model.RiskLow:
		add("low_risk", s.params.LowRiskBonus)
	}

	add("rules", in.Adjustment)

	res.Confidence = max(minScore, min(maxScore, total))
	return res
}
