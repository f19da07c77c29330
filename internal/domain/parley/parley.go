// Package parley selects non-overlapping legs for multi-leg cards and
// prices them.
package parley

import (
	"fmt"

	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/odds"
)

// DefaultLegs is the leg count used when dynamic sizing is off.
const DefaultLegs = 3

// Sizing thresholds for OptimalLegs.
const (
	minLegs            = 2
	strongConfidence   = 70
	fourLegCandidates  = 5
	threeLegCandidates = 3
)

// Select picks up to n legs from a pool sorted by descending confidence.
// The first pass takes at most one leg per sport, the second fills the
// remaining slots from any sport. No two legs share an event. Fewer than
// two legs yields nil.
func Select(pool []model.BetFact, n int) []model.BetFact {
	if n < minLegs {
		return nil
	}
	usedEvents := make(map[string]struct{}, n)
	usedSports := make(map[string]struct{}, n)
	picked := make(map[int]struct{}, n)
	legs := make([]model.BetFact, 0, n)

	for i, f := range pool {
		if len(legs) == n {
			break
		}
		if _, ok := usedEvents[f.EventID]; ok {
			continue
		}
		if _, ok := usedSports[f.Sport]; ok {
			continue
		}
		usedEvents[f.EventID] = struct{}{}
		usedSports[f.Sport] = struct{}{}
		picked[i] = struct{}{}
		legs = append(legs, f)
	}
	for i, f := range pool {
		if len(legs) == n {
			break
		}
		if _, ok := picked[i]; ok {
			continue
		}
		if _, ok := usedEvents[f.EventID]; ok {
			continue
		}
		usedEvents[f.EventID] = struct{}{}
		legs = append(legs, f)
	}
	if len(legs) < minLegs {
		return nil
	}
	return legs
}

// Odds returns the combined American price of the legs.
func Odds(legs []model.BetFact) (int, error) {
	prices := make([]int, len(legs))
	for i, l := range legs {
		prices[i] = l.Odds
	}
	price, err := odds.Combine(prices...)
	if err != nil {
		return 0, fmt.Errorf("combine parley legs: %w", err)
	}
	return price, nil
}

// MeanConfidence is the rounded average confidence of the legs.
func MeanConfidence(legs []model.BetFact) int {
	if len(legs) == 0 {
		return 0
	}
	sum := 0
	for _, l := range legs {
		sum += l.Confidence
	}
	return (sum + len(legs)/2) / len(legs)
}

// OptimalLegs suggests a leg count from how many strong, non-trap picks the
// pool holds: 4 for five or more, 3 for three or four, 2 for two, else 0.
func OptimalLegs(pool []model.BetFact, isTrap func(team string) bool) int {
	strong := 0
	for _, f := range pool {
		if f.Confidence < strongConfidence {
			continue
		}
		if isTrap != nil && isTrap(f.Pick.Team) {
			continue
		}
		strong++
	}
	switch {
	case strong >= fourLegCandidates:
		return 4
	case strong >= threeLegCandidates:
		return 3
	case strong >= minLegs:
		return 2
	default:
		return 0
	}
}
