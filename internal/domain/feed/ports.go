package feed

import (
	"context"

	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/shopspring/decimal"
)

// Fetcher returns the events of one sport. Implementations degrade to
// cached or empty results instead of failing.
type Fetcher interface {
	FetchOdds(ctx context.Context, sport string) []model.Event
}

// Store is the persistence the builder reads and writes.
type Store interface {
	// LoadSet returns the set for a day; ok is false when none was saved.
	LoadSet(ctx context.Context, date string) (set *model.DailySet, ok bool, err error)
	SaveSet(ctx context.Context, set *model.DailySet) error
	Params(ctx context.Context) (model.Params, error)
	Injuries(ctx context.Context) (rules.Injuries, error)
	RecentGames(ctx context.Context) (rules.RecentGames, error)
	SaveRecentGames(ctx context.Context, recent rules.RecentGames) error
	Bankroll(ctx context.Context, fallback decimal.Decimal) (decimal.Decimal, error)
}
