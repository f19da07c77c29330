package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/vstrike/internal/domain/feedback"
	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/shopspring/decimal"
)

// Record keys.
const (
	setPrefix       = "recs:"
	processedPrefix = "scores_processed:"
	cachePrefix     = "cache:"
	keyRecentGames  = "games_window"
	keyInjuries     = "injuries"
	keyKeyIndex     = "key_index"
	keyKeyMonth     = "key_month"
	keyOverrides    = "strategy_params"
	keyBankroll     = "bankroll"
)

// historyVersion tags export documents.
const historyVersion = 1

// Repository maps engine records onto a Store.
type Repository struct {
	store Store
}

// New creates a Repository over store.
func New(store Store) *Repository {
	return &Repository{store: store}
}

// Store returns the underlying port.
func (r *Repository) Store() Store {
	return r.store
}

func (r *Repository) getJSON(ctx context.Context, key string, v any) error {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, key, err)
	}
	return nil
}

func (r *Repository) putJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.store.Set(ctx, key, raw)
}

// LoadSet returns the recommendation set of a day.
func (r *Repository) LoadSet(ctx context.Context, date string) (*model.DailySet, bool, error) {
	var set model.DailySet
	err := r.getJSON(ctx, setPrefix+date, &set)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &set, true, nil
}

// SaveSet writes a day's set.
func (r *Repository) SaveSet(ctx context.Context, set *model.DailySet) error {
	if set == nil || set.Date == "" {
		return fmt.Errorf("save set: missing date")
	}
	return r.putJSON(ctx, setPrefix+set.Date, set)
}

// Dates lists the days that have a stored set, oldest first.
func (r *Repository) Dates(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, setPrefix)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		dates = append(dates, strings.TrimPrefix(k, setPrefix))
	}
	sort.Strings(dates)
	return dates, nil
}

// Overrides returns the strategy override record, empty when none exists.
func (r *Repository) Overrides(ctx context.Context) (*feedback.Overrides, error) {
	o := &feedback.Overrides{}
	err := r.getJSON(ctx, keyOverrides, o)
	if errors.Is(err, ErrNotFound) {
		return &feedback.Overrides{}, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// SaveOverrides writes the override record.
func (r *Repository) SaveOverrides(ctx context.Context, o *feedback.Overrides) error {
	return r.putJSON(ctx, keyOverrides, o)
}

// Params returns the default params with overrides applied.
func (r *Repository) Params(ctx context.Context) (model.Params, error) {
	o, err := r.Overrides(ctx)
	if err != nil {
		return model.DefaultParams(), err
	}
	return o.Resolve(model.DefaultParams()), nil
}

// Injuries returns the current injury map.
func (r *Repository) Injuries(ctx context.Context) (rules.Injuries, error) {
	inj := rules.Injuries{}
	err := r.getJSON(ctx, keyInjuries, &inj)
	if errors.Is(err, ErrNotFound) {
		return rules.Injuries{}, nil
	}
	return inj, err
}

// SaveInjuries replaces the injury map.
func (r *Repository) SaveInjuries(ctx context.Context, inj rules.Injuries) error {
	return r.putJSON(ctx, keyInjuries, inj)
}

// RecentGames returns the rolling games-played window.
func (r *Repository) RecentGames(ctx context.Context) (rules.RecentGames, error) {
	recent := rules.RecentGames{}
	err := r.getJSON(ctx, keyRecentGames, &recent)
	if errors.Is(err, ErrNotFound) {
		return rules.RecentGames{}, nil
	}
	return recent, err
}

// SaveRecentGames writes the rolling window.
func (r *Repository) SaveRecentGames(ctx context.Context, recent rules.RecentGames) error {
	return r.putJSON(ctx, keyRecentGames, recent)
}

// Bankroll returns the stored bankroll, or fallback when none is stored.
func (r *Repository) Bankroll(ctx context.Context, fallback decimal.Decimal) (decimal.Decimal, error) {
	var v decimal.Decimal
	err := r.getJSON(ctx, keyBankroll, &v)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	return v, nil
}

// SaveBankroll stores the bankroll.
func (r *Repository) SaveBankroll(ctx context.Context, v decimal.Decimal) error {
	return r.putJSON(ctx, keyBankroll, v)
}

// KeyIndex returns the active API key index, 0 when unset.
func (r *Repository) KeyIndex(ctx context.Context) (int, error) {
	var idx int
	err := r.getJSON(ctx, keyKeyIndex, &idx)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	return idx, err
}

// SaveKeyIndex stores the active API key index.
func (r *Repository) SaveKeyIndex(ctx context.Context, idx int) error {
	return r.putJSON(ctx, keyKeyIndex, idx)
}

// KeyMonth returns the month the key index was last reset, "" when unset.
func (r *Repository) KeyMonth(ctx context.Context) (string, error) {
	var month string
	err := r.getJSON(ctx, keyKeyMonth, &month)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return month, err
}

// SaveKeyMonth stores the reset month.
func (r *Repository) SaveKeyMonth(ctx context.Context, month string) error {
	return r.putJSON(ctx, keyKeyMonth, month)
}

type cacheEntry struct {
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// LoadCache returns a cached feed payload and when it was stored.
func (r *Repository) LoadCache(ctx context.Context, name string) ([]byte, time.Time, error) {
	var e cacheEntry
	if err := r.getJSON(ctx, cachePrefix+name, &e); err != nil {
		return nil, time.Time{}, err
	}
	return e.Payload, e.StoredAt, nil
}

// SaveCache stores a feed payload. The payload must be valid JSON.
func (r *Repository) SaveCache(ctx context.Context, name string, payload []byte, at time.Time) error {
	return r.putJSON(ctx, cachePrefix+name, cacheEntry{StoredAt: at, Payload: payload})
}

// ScoresProcessed reports whether scores for date were already applied.
func (r *Repository) ScoresProcessed(ctx context.Context, date string) (bool, error) {
	_, err := r.store.Get(ctx, processedPrefix+date)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkScoresProcessed records that scores for date were applied.
func (r *Repository) MarkScoresProcessed(ctx context.Context, date string, at time.Time) error {
	return r.putJSON(ctx, processedPrefix+date, at)
}

// History is a portable dump of every stored set and the strategy record.
type History struct {
	Version    int                 `json:"version"`
	ExportedAt time.Time           `json:"exported_at"`
	Sets       []model.DailySet    `json:"sets"`
	Overrides  *feedback.Overrides `json:"overrides,omitempty"`
}

// Export dumps the history, oldest day first.
func (r *Repository) Export(ctx context.Context, now time.Time) (*History, error) {
	dates, err := r.Dates(ctx)
	if err != nil {
		return nil, err
	}
	h := &History{Version: historyVersion, ExportedAt: now}
	for _, d := range dates {
		set, ok, err := r.LoadSet(ctx, d)
		if err != nil {
			return nil, err
		}
		if ok {
			h.Sets = append(h.Sets, *set)
		}
	}
	if h.Overrides, err = r.Overrides(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Import restores sets from a dump. Days already stored are kept unless
// overwrite is set. It returns the number of sets written.
func (r *Repository) Import(ctx context.Context, h *History, overwrite bool) (int, error) {
	if h == nil {
		return 0, nil
	}
	written := 0
	for i := range h.Sets {
		set := &h.Sets[i]
		if set.Date == "" {
			continue
		}
		if !overwrite {
			if _, ok, err := r.LoadSet(ctx, set.Date); err != nil {
				return written, err
			} else if ok {
				continue
			}
		}
		if err := r.SaveSet(ctx, set); err != nil {
			return written, err
		}
		written++
	}
	if h.Overrides != nil {
		cur, err := r.Overrides(ctx)
		if err != nil {
			return written, err
		}
		if overwrite || (len(cur.Params) == 0 && len(cur.History) == 0) {
			if err := r.SaveOverrides(ctx, h.Overrides); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}
