package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/okian/vstrike/internal/domain/model"
)

// Snapshot is a recorded slate. Odds are keyed by sport.
type Snapshot struct {
	Odds   map[string][]model.Event      `json:"odds"`
	Scores map[string][]model.ScoreEvent `json:"scores,omitempty"`
}

// Sports returns the sport keys present in the snapshot, sorted.
func (s *Snapshot) Sports() []string {
	out := make([]string, 0, len(s.Odds))
	for k := range s.Odds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FetchOdds serves recorded events for sport.
func (s *Snapshot) FetchOdds(_ context.Context, sport string) []model.Event {
	return s.Odds[sport]
}

// LoadSnapshot reads a snapshot file. A bare event list is grouped by each
// event's sport_key.
func LoadSnapshot(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeSnapshot(raw)
}

// DecodeSnapshot parses snapshot bytes.
func DecodeSnapshot(raw []byte) (*Snapshot, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var events []model.Event
		if err := json.Unmarshal(raw, &events); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
		}
		snap := &Snapshot{Odds: map[string][]model.Event{}}
		for _, ev := range events {
			if ev.SportKey == "" {
				return nil, fmt.Errorf("%w: event %s has no sport_key", ErrSnapshot, ev.ID)
			}
			snap.Odds[ev.SportKey] = append(snap.Odds[ev.SportKey], ev)
		}
		return snap, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	if snap.Odds == nil {
		snap.Odds = map[string][]model.Event{}
	}
	for sport := range snap.Odds {
		for i := range snap.Odds[sport] {
			snap.Odds[sport][i].SportKey = sport
		}
	}
	for sport := range snap.Scores {
		for i := range snap.Scores[sport] {
			snap.Scores[sport][i].SportKey = sport
		}
	}
	return &snap, nil
}
