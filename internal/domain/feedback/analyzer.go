// Package feedback mines graded history for strategy adjustments.
package feedback

import (
	"fmt"

	"github.com/okian/vstrike/internal/domain/model"
)

// Pattern thresholds.
const (
	minSample = 3

	heavyFavoritePrice = -300
	heavyFavoriteFloor = 0.60
	moderateDogMin     = 150
	moderateDogMax     = 250
	moderateDogCeiling = 0.35
	highRiskCeiling    = 0.40
	lowRiskFloor       = 0.60
	homeCeiling        = 0.65
)

// Proposed values for each pattern.
const (
	suggestedFavOddsMax         = -250
	suggestedModerateDogPenalty = -10
	suggestedHighRiskPenalty    = -10
	suggestedLowRiskBonus       = 15
	suggestedHomeBonus          = 8
)

// Insight types.
const (
	InsightWarning = "warning"
	InsightSuccess = "success"
)

// Action is a proposed parameter change.
type Action struct {
	Param        string `json:"param"`
	CurrentValue int    `json:"current_value"`
	NewValue     int    `json:"new_value"`
	Impact       string `json:"impact"`
}

// Insight is one detected pattern with its suggestion.
type Insight struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
	Action     Action `json:"action"`
}

// Bucket aggregates wins over a subset of facts.
type Bucket struct {
	Total   int     `json:"total"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

func (b *Bucket) add(f model.BetFact) {
	b.Total++
	if f.Result == model.ResultWin {
		b.Wins++
	}
	b.WinRate = float64(b.Wins) / float64(b.Total)
}

// Analysis is the performance breakdown of one day.
type Analysis struct {
	Date     string                `json:"date"`
	Total    int                   `json:"total"`
	Wins     int                   `json:"wins"`
	Losses   int                   `json:"losses"`
	WinRate  float64               `json:"win_rate"`
	ByRisk   map[model.Risk]Bucket `json:"by_risk"`
	Insights []Insight             `json:"insights"`
}

// Analyze groups the resolved facts of a set by risk and runs the pattern
// checks. Parley legs count once each; a leg that is also an individual fact
// is not counted twice. It returns nil when nothing has been graded.
func Analyze(set *model.DailySet, params model.Params) *Analysis {
	if set == nil {
		return nil
	}
	resolved := graded(set)
	if len(resolved) == 0 {
		return nil
	}

	a := &Analysis{Date: set.Date, Total: len(resolved), ByRisk: make(map[model.Risk]Bucket)}
	var heavy, dogs, home Bucket
	for _, f := range resolved {
		if f.Result == model.ResultWin {
			a.Wins++
		} else {
			a.Losses++
		}
		b := a.ByRisk[f.Risk]
		b.add(f)
		a.ByRisk[f.Risk] = b

		if f.Odds < heavyFavoritePrice {
			heavy.add(f)
		}
		if f.Odds >= moderateDogMin && f.Odds <= moderateDogMax {
			dogs.add(f)
		}
		if f.IsHome {
			home.add(f)
		}
	}
	a.WinRate = float64(a.Wins) / float64(a.Total)

	if heavy.Total >= minSample && heavy.WinRate < heavyFavoriteFloor {
		a.Insights = append(a.Insights, Insight{
			Type:       InsightWarning,
			Message:    fmt.Sprintf("Heavy favorites (under %d) won only %s.", heavyFavoritePrice, pct(heavy)),
			Suggestion: "Tighten the favorite price ceiling.",
			Action:     Action{Param: model.ParamFavOddsMax, CurrentValue: params.FavOddsMax, NewValue: suggestedFavOddsMax, Impact: "Fewer heavy favorites"},
		})
	}
	if dogs.Total >= minSample && dogs.WinRate > moderateDogCeiling {
		a.Insights = append(a.Insights, Insight{
			Type:       InsightSuccess,
			Message:    fmt.Sprintf("Underdogs between +%d and +%d won %s.", moderateDogMin, moderateDogMax, pct(dogs)),
			Suggestion: "Reduce the moderate underdog penalty.",
			Action:     Action{Param: model.ParamModerateDogPenalty, CurrentValue: params.ModerateDogPenalty, NewValue: suggestedModerateDogPenalty, Impact: "More value underdogs"},
		})
	}
	if b := a.ByRisk[model.RiskHigh]; b.Total >= minSample && b.WinRate > highRiskCeiling {
		a.Insights = append(a.Insights, Insight{
			Type:       InsightSuccess,
			Message:    fmt.Sprintf("High-risk picks won %s.", pct(b)),
			Suggestion: "Reduce the high-risk penalty.",
			Action:     Action{Param: model.ParamHighRiskPenalty, CurrentValue: params.HighRiskPenalty, NewValue: suggestedHighRiskPenalty, Impact: "More surprise picks"},
		})
	}
	if b := a.ByRisk[model.RiskLow]; b.Total >= minSample && b.WinRate < lowRiskFloor {
		a.Insights = append(a.Insights, Insight{
			Type:       InsightWarning,
			Message:    fmt.Sprintf("Low-risk picks won only %s.", pct(b)),
			Suggestion: "Raise the quality bar for low-risk picks.",
			Action:     Action{Param: model.ParamLowRiskBonus, CurrentValue: params.LowRiskBonus, NewValue: suggestedLowRiskBonus, Impact: "Stricter favorites"},
		})
	}
	if home.Total >= minSample && home.WinRate > homeCeiling {
		a.Insights = append(a.Insights, Insight{
			Type:       InsightSuccess,
			Message:    fmt.Sprintf("Home teams won %s.", pct(home)),
			Suggestion: "Increase the home bonus.",
			Action:     Action{Param: model.ParamHomeBonus, CurrentValue: params.HomeBonus, NewValue: suggestedHomeBonus, Impact: "More weight on home advantage"},
		})
	}
	return a
}

// graded returns the resolved individual facts followed by the resolved
// parley legs not already listed, deduplicated by fact id.
func graded(set *model.DailySet) []model.BetFact {
	var out []model.BetFact
	seen := make(map[string]struct{})
	for _, f := range set.Facts {
		if f.ID != "" {
			seen[f.ID] = struct{}{}
		}
		if f.Result.Resolved() {
			out = append(out, f)
		}
	}
	for _, card := range set.Parleys {
		for _, l := range card.Legs {
			if l.ID != "" {
				if _, dup := seen[l.ID]; dup {
					continue
				}
				seen[l.ID] = struct{}{}
			}
			if l.Result.Resolved() {
				out = append(out, l)
			}
		}
	}
	return out
}

func pct(b Bucket) string {
	return fmt.Sprintf("%.0f%% (%d/%d)", b.WinRate*100, b.Wins, b.Total)
}
