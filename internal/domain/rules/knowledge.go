package rules

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// TrapTeam is a team that historically underperforms as a favorite.
type TrapTeam struct {
	Team    string `koanf:"team"`
	Penalty int    `koanf:"penalty"`
	Reason  string `koanf:"reason"`
}

// ValueTeam is a team the market tends to underrate.
type ValueTeam struct {
	Team   string `koanf:"team"`
	Bonus  int    `koanf:"bonus"`
	Reason string `koanf:"reason"`
}

// Roster lists a team's key players in order of importance.
type Roster struct {
	Team    string   `koanf:"team"`
	Players []string `koanf:"players"`
}

// Division groups teams of one sport.
type Division struct {
	Sport string   `koanf:"sport"`
	Name  string   `koanf:"name"`
	Teams []string `koanf:"teams"`
}

// Record is a team's historical win/loss line.
type Record struct {
	Sport  string `koanf:"sport"`
	Team   string `koanf:"team"`
	Wins   int    `koanf:"wins"`
	Losses int    `koanf:"losses"`
}

// WinRate returns wins over games played, or 0 with no games.
func (r Record) WinRate() float64 {
	total := r.Wins + r.Losses
	if total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(total)
}

// KnowledgeBase is the static rule data.
type KnowledgeBase struct {
	TrapTeams   []TrapTeam  `koanf:"trap_teams"`
	ValueTeams  []ValueTeam `koanf:"value_teams"`
	StarPlayers []Roster    `koanf:"star_players"`
	Divisions   []Division  `koanf:"divisions"`
	History     []Record    `koanf:"history"`
}

// LoadKnowledgeBase reads a YAML rules file. Sections missing from the file
// keep the built-in defaults.
func LoadKnowledgeBase(path string) (KnowledgeBase, error) {
	kb := DefaultKnowledgeBase()
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return kb, fmt.Errorf("%w: %s: %w", ErrLoadRules, path, err)
	}
	var loaded KnowledgeBase
	if err := k.UnmarshalWithConf("", &loaded, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return kb, fmt.Errorf("%w: %w", ErrLoadRules, err)
	}
	if k.Exists("trap_teams") {
		kb.TrapTeams = loaded.TrapTeams
	}
	if k.Exists("value_teams") {
		kb.ValueTeams = loaded.ValueTeams
	}
	if k.Exists("star_players") {
		kb.StarPlayers = loaded.StarPlayers
	}
	if k.Exists("divisions") {
		kb.Divisions = loaded.Divisions
	}
	if k.Exists("history") {
		kb.History = loaded.History
	}
	return kb, nil
}

// DefaultKnowledgeBase returns the built-in rule data.
func DefaultKnowledgeBase() KnowledgeBase {
	return KnowledgeBase{
		TrapTeams: []TrapTeam{
			{Team: "Cleveland Cavaliers", Penalty: -15, Reason: "1-9 ATS as favorites"},
			{Team: "Toronto Raptors", Penalty: -12, Reason: "2-10 ATS recently"},
			{Team: "Milwaukee Bucks", Penalty: -10, Reason: "Inconsistent without Giannis"},
			{Team: "New York Yankees", Penalty: -15, Reason: "-21.1 units in the 2025 season"},
			{Team: "Atlanta Braves", Penalty: -18, Reason: "-42.5 units in the 2025 season"},
			{Team: "Colorado Rockies", Penalty: -20, Reason: "-30 units, 30-82 record"},
			{Team: "Chicago Blackhawks", Penalty: -12, Reason: "Rebuilding"},
		},
		ValueTeams: []ValueTeam{
			{Team: "Charlotte Hornets", Bonus: 12, Reason: "16-11 ATS as underdogs"},
			{Team: "Miami Heat", Bonus: 8, Reason: "Consistent in the playoffs"},
			{Team: "Detroit Pistons", Bonus: 8, Reason: "Frequent upsets"},
			{Team: "Milwaukee Brewers", Bonus: 15, Reason: "+20.2 units, 68-44"},
			{Team: "Toronto Blue Jays", Bonus: 12, Reason: "+14.4 units, 2025 World Series"},
			{Team: "Miami Marlins", Bonus: 10, Reason: "+13.1 units as underdogs"},
			{Team: "Philadelphia Phillies", Bonus: 8, Reason: "66.3% home win rate"},
			{Team: "Los Angeles Dodgers", Bonus: 10, Reason: "2025 champions"},
			{Team: "Colorado Avalanche", Bonus: 10, Reason: "67.3% win rate"},
			{Team: "Tampa Bay Lightning", Bonus: 8, Reason: "65.4% win rate"},
			{Team: "Dallas Stars", Bonus: 8, Reason: "57.4% win rate, strong in OT"},
		},
		StarPlayers: []Roster{
			{Team: "Los Angeles Lakers", Players: []string{"LeBron James", "Anthony Davis"}},
			{Team: "Golden State Warriors", Players: []string{"Stephen Curry", "Draymond Green"}},
			{Team: "Milwaukee Bucks", Players: []string{"Giannis Antetokounmpo", "Damian Lillard"}},
			{Team: "Denver Nuggets", Players: []string{"Nikola Jokic", "Jamal Murray"}},
			{Team: "Kansas City Chiefs", Players: []string{"Patrick Mahomes", "Travis Kelce"}},
			{Team: "Edmonton Oilers", Players: []string{"Connor McDavid", "Leon Draisaitl"}},
		},
		Divisions: []Division{
			{Sport: "basketball_nba", Name: "Pacific", Teams: []string{"Los Angeles Lakers", "Los Angeles Clippers", "Golden State Warriors", "Phoenix Suns", "Sacramento Kings"}},
			{Sport: "basketball_nba", Name: "Atlantic", Teams: []string{"Boston Celtics", "New York Knicks", "Brooklyn Nets", "Philadelphia 76ers", "Toronto Raptors"}},
			{Sport: "americanfootball_nfl", Name: "NFC East", Teams: []string{"Dallas Cowboys", "Philadelphia Eagles", "New York Giants", "Washington Commanders"}},
			{Sport: "americanfootball_nfl", Name: "NFC North", Teams: []string{"Chicago Bears", "Detroit Lions", "Green Bay Packers", "Minnesota Vikings"}},
			{Sport: "icehockey_nhl", Name: "Atlantic", Teams: []string{"Boston Bruins", "Toronto Maple Leafs", "Florida Panthers", "Tampa Bay Lightning"}},
		},
		History: []Record{
			{Sport: "basketball_nba", Team: "Boston Celtics", Wins: 64, Losses: 18},
			{Sport: "basketball_nba", Team: "Denver Nuggets", Wins: 57, Losses: 25},
			{Sport: "americanfootball_nfl", Team: "Kansas City Chiefs", Wins: 15, Losses: 2},
			{Sport: "icehockey_nhl", Team: "Florida Panthers", Wins: 52, Losses: 24},
		},
	}
}
