package feedback

import "github.com/okian/vstrike/internal/domain/model"

// DaySummary is the graded record of one day.
type DaySummary struct {
	Date    string  `json:"date"`
	Total   int     `json:"total"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Pending int     `json:"pending"`
	WinRate float64 `json:"win_rate"`
}

// Summary aggregates several days.
type Summary struct {
	Days        int          `json:"days"`
	TotalPicks  int          `json:"total_picks"`
	TotalWins   int          `json:"total_wins"`
	TotalLosses int          `json:"total_losses"`
	WinRate     float64      `json:"win_rate"`
	Daily       []DaySummary `json:"daily"`
}

// Summarize tallies individual facts of the given sets in order. Nil sets
// are skipped.
func Summarize(sets []*model.DailySet) Summary {
	var s Summary
	for _, set := range sets {
		if set == nil {
			continue
		}
		d := DaySummary{Date: set.Date, Total: len(set.Facts)}
		for _, f := range set.Facts {
			switch f.Result {
			case model.ResultWin:
				d.Wins++
			case model.ResultLoss:
				d.Losses++
			default:
				d.Pending++
			}
		}
		if graded := d.Wins + d.Losses; graded > 0 {
			d.WinRate = float64(d.Wins) / float64(graded)
		}
		s.Days++
		s.TotalPicks += d.Total
		s.TotalWins += d.Wins
		s.TotalLosses += d.Losses
		s.Daily = append(s.Daily, d)
	}
	if graded := s.TotalWins + s.TotalLosses; graded > 0 {
		s.WinRate = float64(s.TotalWins) / float64(graded)
	}
	return s
}
