package normalizer

import "time"

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithReferenceBooks sets the bookmaker allow-list in priority order.
func WithReferenceBooks(keys ...string) Option {
	return func(n *Normalizer) {
		if len(keys) > 0 {
			n.referenceBooks = append([]string(nil), keys...)
		}
	}
}

// WithSharpBook sets the bookmaker used for value detection.
func WithSharpBook(key string) Option {
	return func(n *Normalizer) {
		if key != "" {
			n.sharpBook = key
		}
	}
}

// WithFavoriteFloor sets the heaviest favorite price still considered.
func WithFavoriteFloor(price int) Option {
	return func(n *Normalizer) {
		if price < 0 {
			n.favoriteFloor = price
		}
	}
}

// WithLocation sets the time zone that defines "today".
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.loc = loc
		}
	}
}
