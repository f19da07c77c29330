package service

import (
	"time"

	"github.com/okian/vstrike/internal/adapters/repository"
	"github.com/okian/vstrike/internal/domain/feed"
	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/pkg/logger"
	"github.com/shopspring/decimal"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRepository sets the persistence layer.
func WithRepository(r *repository.Repository) Option {
	return func(s *Service) {
		if r != nil {
			s.repo = r
		}
	}
}

// WithOddsFeed sets the odds and scores source.
func WithOddsFeed(f OddsFeed) Option {
	return func(s *Service) {
		if f != nil {
			s.odds = f
		}
	}
}

// WithInjuryFeed enables injury refreshes before generation.
func WithInjuryFeed(f InjuryFeed) Option {
	return func(s *Service) {
		s.injuries = f
	}
}

// WithSports sets the sports fetched, in fetch order.
func WithSports(sports ...model.Sport) Option {
	return func(s *Service) {
		if len(sports) > 0 {
			s.sports = append([]model.Sport(nil), sports...)
		}
	}
}

// WithLocation sets the time zone whose calendar day keys a set.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFeedOptions passes options through to the daily feed builder.
func WithFeedOptions(opts ...feed.Option) Option {
	return func(s *Service) {
		s.feedOpts = append(s.feedOpts, opts...)
	}
}

// WithBankroll sets the bankroll used until one is stored.
func WithBankroll(v decimal.Decimal) Option {
	return func(s *Service) {
		if v.IsPositive() {
			s.bankroll = v
		}
	}
}

// WithQueueSize sets the maximum number of pending jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSchedule sets the daily generation and grading times as HH:MM.
func WithSchedule(generateAt, gradeAt string) Option {
	return func(s *Service) {
		if generateAt != "" {
			s.generateAt = generateAt
		}
		if gradeAt != "" {
			s.gradeAt = gradeAt
		}
	}
}

// WithTickInterval sets how often the scheduler checks the clock.
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.tick = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
