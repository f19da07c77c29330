package grading

import (
	"fmt"

	"github.com/okian/vstrike/internal/domain/model"
)

// SetResult records a manual result for the fact or parley card with id.
// Only pending entries change. Setting a fact also rolls up every parley
// card that embeds it as a leg.
func SetResult(set *model.DailySet, id string, r model.Result) error {
	if !r.Resolved() {
		return ErrInvalidResult
	}
	if set == nil {
		return fmt.Errorf("%s: %w", id, ErrUnknownPick)
	}
	if card := set.Parley(id); card != nil {
		if card.Result.Resolved() {
			return fmt.Errorf("%s is %s: %w", id, card.Result, ErrAlreadyResolved)
		}
		card.Result = r
		return nil
	}

	found, changed := false, false
	if f := set.Fact(id); f != nil {
		found = true
		changed = f.Resolve(r)
	}
	for i := range set.Parleys {
		card := &set.Parleys[i]
		for j := range card.Legs {
			if card.Legs[j].ID != id {
				continue
			}
			found = true
			if card.Legs[j].Resolve(r) {
				changed = true
			}
		}
		card.RollUp()
	}
	switch {
	case !found:
		return fmt.Errorf("%s: %w", id, ErrUnknownPick)
	case !changed:
		return fmt.Errorf("%s: %w", id, ErrAlreadyResolved)
	}
	return nil
}
