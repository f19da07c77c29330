package feedback

import (
	"time"

	"github.com/google/uuid"
	"github.com/okian/vstrike/internal/domain/model"
)

// Change is one applied adjustment.
type Change struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Param    string    `json:"param"`
	OldValue int       `json:"old_value"`
	NewValue int       `json:"new_value"`
	Impact   string    `json:"impact,omitempty"`
}

// Overrides is the persisted parameter record with its change history.
type Overrides struct {
	Params      map[string]int `json:"params"`
	LastUpdated time.Time      `json:"last_updated"`
	History     []Change       `json:"history"`
}

// Resolve applies the overrides on top of base.
func (o *Overrides) Resolve(base model.Params) model.Params {
	if o == nil {
		return base
	}
	for name, v := range o.Params {
		base.Set(name, v)
	}
	return base
}

// Apply records an action. It fails unless confirmed is true. Facts that
// were already scored are not affected.
func (o *Overrides) Apply(base model.Params, a Action, confirmed bool, now time.Time) (Change, error) {
	if !confirmed {
		return Change{}, ErrNotConfirmed
	}
	current := o.Resolve(base)
	old, ok := current.Get(a.Param)
	if !ok {
		return Change{}, ErrUnknownParam
	}
	if o.Params == nil {
		o.Params = make(map[string]int)
	}
	o.Params[a.Param] = a.NewValue
	o.LastUpdated = now
	c := Change{
		ID:       uuid.NewString(),
		Date:     now,
		Param:    a.Param,
		OldValue: old,
		NewValue: a.NewValue,
		Impact:   a.Impact,
	}
	o.History = append(o.History, c)
	return c, nil
}
