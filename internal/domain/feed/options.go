package feed

import (
	"time"

	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/normalizer"
	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/okian/vstrike/internal/domain/staking"
	"github.com/okian/vstrike/pkg/logger"
	"github.com/shopspring/decimal"
)

// Option configures a Builder.
type Option func(*Builder)

// WithSports sets the sports polled, in fetch order.
func WithSports(sports ...model.Sport) Option {
	return func(b *Builder) {
		b.sports = append([]model.Sport(nil), sports...)
	}
}

// WithBankroll sets the bankroll used when the store holds none.
func WithBankroll(v decimal.Decimal) Option {
	return func(b *Builder) {
		if v.IsPositive() {
			b.bankroll = v
		}
	}
}

// WithParleyLegs sets the leg count of the daily cards.
func WithParleyLegs(n int) Option {
	return func(b *Builder) {
		if n >= 2 {
			b.legs = n
		}
	}
}

// WithDynamicLegs sizes the safe card from the strength of the pool.
func WithDynamicLegs(enabled bool) Option {
	return func(b *Builder) {
		b.dynamicLegs = enabled
	}
}

// WithMaxPerSport caps the individual picks per sport.
func WithMaxPerSport(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxPerSport = n
		}
	}
}

// WithLocation sets the time zone that defines the calendar day.
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		if loc != nil {
			b.loc = loc
		}
	}
}

// WithNormalizer replaces the event normalizer.
func WithNormalizer(n *normalizer.Normalizer) Option {
	return func(b *Builder) {
		if n != nil {
			b.normalizer = n
		}
	}
}

// WithRules sets the adjustment knowledge base.
func WithRules(r *rules.Rules) Option {
	return func(b *Builder) {
		if r != nil {
			b.rules = r
		}
	}
}

// WithSizer replaces the stake sizer.
func WithSizer(s *staking.Sizer) Option {
	return func(b *Builder) {
		if s != nil {
			b.sizer = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}
