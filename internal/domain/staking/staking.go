// Package staking sizes a wager from the bankroll and a confidence score.
package staking

import "github.com/shopspring/decimal"

// Default sizing bounds.
var (
	defaultMinPct = decimal.RequireFromString("0.01")
	defaultMaxPct = decimal.RequireFromString("0.10")
	defaultFloor  = decimal.RequireFromString("0.50")
	hundred       = decimal.NewFromInt(100)
)

// Option configures a Sizer.
type Option func(*Sizer)

// WithRange sets the bankroll fractions used at confidence 0 and 100.
func WithRange(minPct, maxPct decimal.Decimal) Option {
	return func(s *Sizer) {
		if minPct.IsPositive() && maxPct.GreaterThan(minPct) {
			s.minPct = minPct
			s.maxPct = maxPct
		}
	}
}

// WithFloor sets the smallest stake ever suggested.
func WithFloor(floor decimal.Decimal) Option {
	return func(s *Sizer) {
		if floor.IsPositive() {
			s.floor = floor
		}
	}
}

// Sizer interpolates linearly between a minimum and maximum bankroll share.
type Sizer struct {
	minPct decimal.Decimal
	maxPct decimal.Decimal
	floor  decimal.Decimal
}

// NewSizer creates a Sizer with 1%..10% of bankroll and a 0.50 floor.
func NewSizer(opts ...Option) *Sizer {
	s := &Sizer{minPct: defaultMinPct, maxPct: defaultMaxPct, floor: defaultFloor}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stake returns bankroll*(min+conf/100*(max-min)) clamped to
// [floor, bankroll*max] and rounded to cents.
func (s *Sizer) Stake(bankroll decimal.Decimal, confidence int) decimal.Decimal {
	conf := decimal.NewFromInt(int64(max(0, min(100, confidence)))).Div(hundred)
	pct := s.minPct.Add(conf.Mul(s.maxPct.Sub(s.minPct)))
	stake := bankroll.Mul(pct)
	stake = decimal.Max(s.floor, stake)
	stake = decimal.Min(stake, bankroll.Mul(s.maxPct))
	return stake.Round(2)
}
