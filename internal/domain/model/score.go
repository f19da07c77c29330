package model

import (
	"strconv"
	"strings"
	"time"
)

// ScoreEvent is a game entry from the scores feed.
type ScoreEvent struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	Completed    bool        `json:"completed"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Scores       []TeamScore `json:"scores"`
}

// TeamScore is one team's score string as reported by the feed.
type TeamScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// FinalScore is a completed game reduced to integer scores.
type FinalScore struct {
	EventID   string `json:"event_id"`
	Sport     string `json:"sport"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

// Final converts a completed entry into a FinalScore. Missing or malformed
// scores count as zero. It returns false for games still in progress.
func (e ScoreEvent) Final() (FinalScore, bool) {
	if !e.Completed {
		return FinalScore{}, false
	}
	fs := FinalScore{EventID: e.ID, Sport: e.SportKey, HomeTeam: e.HomeTeam, AwayTeam: e.AwayTeam}
	for _, s := range e.Scores {
		n, err := strconv.Atoi(strings.TrimSpace(s.Score))
		if err != nil {
			n = 0
		}
		switch s.Name {
		case e.HomeTeam:
			fs.HomeScore = n
		case e.AwayTeam:
			fs.AwayScore = n
		}
	}
	return fs, true
}

// Winner returns the winning team, or "" on a tie.
func (s FinalScore) Winner() string {
	switch {
	case s.HomeScore > s.AwayScore:
		return s.HomeTeam
	case s.AwayScore > s.HomeScore:
		return s.AwayTeam
	default:
		return ""
	}
}

// ScoreFor returns team's score and its opponent's. ok is false when the
// team did not play in this game.
func (s FinalScore) ScoreFor(team string) (own, opp int, ok bool) {
	switch team {
	case s.HomeTeam:
		return s.HomeScore, s.AwayScore, true
	case s.AwayTeam:
		return s.AwayScore, s.HomeScore, true
	default:
		return 0, 0, false
	}
}
