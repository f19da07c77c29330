// Package grading settles pending recommendations against final scores.
package grading

import (
	"strings"

	"github.com/okian/vstrike/internal/domain/model"
)

// Report summarizes one grading pass.
type Report struct {
	Date      string `json:"date"`
	Graded    int    `json:"graded"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	Unmatched int    `json:"unmatched"`
	Parleys   int    `json:"parleys"`
}

// Changed reports whether the pass mutated the set.
func (r Report) Changed() bool {
	return r.Graded > 0 || r.Parleys > 0
}

// Grade resolves every pending fact and parley leg of set that has a final
// score. Facts without a score stay pending. Already resolved entries are
// never touched, so grading the same set twice is a no-op.
func Grade(set *model.DailySet, scores []model.FinalScore) Report {
	rep := Report{}
	if set == nil {
		return rep
	}
	rep.Date = set.Date
	for i := range set.Facts {
		gradeFact(&set.Facts[i], scores, &rep)
	}
	for i := range set.Parleys {
		card := &set.Parleys[i]
		if card.Result.Resolved() {
			continue
		}
		for j := range card.Legs {
			gradeFact(&card.Legs[j], scores, nil)
		}
		if card.RollUp() {
			rep.Parleys++
		}
	}
	return rep
}

func gradeFact(f *model.BetFact, scores []model.FinalScore, rep *Report) {
	if f.Result.Resolved() {
		return
	}
	score, ok := Match(*f, scores)
	if !ok {
		if rep != nil {
			rep.Unmatched++
		}
		return
	}
	result, ok := Settle(f.Pick, score)
	if !ok || !f.Resolve(result) {
		return
	}
	if rep == nil {
		return
	}
	rep.Graded++
	if result == model.ResultWin {
		rep.Wins++
	} else {
		rep.Losses++
	}
}

// Match finds the score of a fact's game, by event id first and then by a
// team name contained in the match label.
func Match(f model.BetFact, scores []model.FinalScore) (model.FinalScore, bool) {
	if f.EventID != "" {
		for _, s := range scores {
			if s.EventID == f.EventID {
				return s, true
			}
		}
	}
	for _, s := range scores {
		if (s.HomeTeam != "" && strings.Contains(f.Match, s.HomeTeam)) ||
			(s.AwayTeam != "" && strings.Contains(f.Match, s.AwayTeam)) {
			return s, true
		}
	}
	return model.FinalScore{}, false
}

// Settle grades a pick against a final score. A moneyline wins only when the
// picked team won outright, so a tie loses. A spread wins when the team's
// score plus the handicap beats the opponent; an exact cover counts as a
// loss. ok is false when the picked team is not in the game.
func Settle(p model.Pick, s model.FinalScore) (model.Result, bool) {
	own, opp, ok := s.ScoreFor(p.Team)
	if !ok {
		return "", false
	}
	switch p.Kind {
	case model.PickSpread:
		if float64(own)+p.Points > float64(opp) {
			return model.ResultWin, true
		}
		return model.ResultLoss, true
	default:
		if s.Winner() == p.Team {
			return model.ResultWin, true
		}
		return model.ResultLoss, true
	}
}

// Scores reduces feed entries to the completed games.
func Scores(events []model.ScoreEvent) []model.FinalScore {
	out := make([]model.FinalScore, 0, len(events))
	for _, e := range events {
		if fs, ok := e.Final(); ok {
			out = append(out, fs)
		}
	}
	return out
}
