package oddsapi

import (
	"context"
	"sync"
	"time"
)

const monthLayout = "2006-01"

// KeyState persists the rotation counter.
type KeyState interface {
	KeyIndex(ctx context.Context) (int, error)
	SaveKeyIndex(ctx context.Context, idx int) error
	KeyMonth(ctx context.Context) (string, error)
	SaveKeyMonth(ctx context.Context, month string) error
}

// KeyRing hands out API keys and advances to the next one on demand. The
// index resets to the first key on the first day of each month.
type KeyRing struct {
	mu    sync.Mutex
	keys  []string
	state KeyState
	now   func() time.Time
}

// NewKeyRing creates a ring over keys backed by state.
func NewKeyRing(keys []string, state KeyState, now func() time.Time) *KeyRing {
	if now == nil {
		now = time.Now
	}
	return &KeyRing{keys: append([]string(nil), keys...), state: state, now: now}
}

// Len returns the number of keys.
func (k *KeyRing) Len() int { return len(k.keys) }

// Current returns the active key.
func (k *KeyRing) Current(ctx context.Context) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.keys) == 0 {
		return "", ErrNoKeys
	}
	if err := k.monthlyReset(ctx); err != nil {
		return "", err
	}
	idx, err := k.state.KeyIndex(ctx)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(k.keys) {
		idx = 0
		if err := k.state.SaveKeyIndex(ctx, idx); err != nil {
			return "", err
		}
	}
	return k.keys[idx], nil
}

// Rotate advances to the next key. It returns false when the last key is
// already active.
func (k *KeyRing) Rotate(ctx context.Context) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	idx, err := k.state.KeyIndex(ctx)
	if err != nil {
		return false, err
	}
	if idx+1 >= len(k.keys) {
		return false, nil
	}
	if err := k.state.SaveKeyIndex(ctx, idx+1); err != nil {
		return false, err
	}
	return true, nil
}

// monthlyReset rewinds to the first key once on the first of the month.
func (k *KeyRing) monthlyReset(ctx context.Context) error {
	now := k.now()
	if now.Day() != 1 {
		return nil
	}
	month := now.Format(monthLayout)
	last, err := k.state.KeyMonth(ctx)
	if err != nil {
		return err
	}
	if last == month {
		return nil
	}
	if err := k.state.SaveKeyIndex(ctx, 0); err != nil {
		return err
	}
	return k.state.SaveKeyMonth(ctx, month)
}
