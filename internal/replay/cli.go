package replay

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
)

// ParseFlags builds a Config from command line arguments.
func ParseFlags(args []string, out io.Writer) (*Config, bool, error) {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		input    = fs.String("input", "", "Snapshot file with recorded odds (required)")
		output   = fs.String("output", "", "Report file (default: stdout)")
		date     = fs.String("date", "", "Day to build as YYYY-MM-DD (default: today)")
		tz       = fs.String("tz", "America/New_York", "IANA time zone of the day")
		bankroll = fs.String("bankroll", "20", "Starting bankroll")
		legs     = fs.Int("legs", 0, "Parley size (default: engine default)")
		dynamic  = fs.Bool("dynamic", false, "Size parleys from the pick count")
		rulesF   = fs.String("rules", "", "Rules file (default: built-in rules)")
		verbose  = fs.Bool("verbose", false, "Log every pick")
		help     = fs.Bool("help", false, "Show help")
	)
	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	if *help {
		ShowHelp(out)
		return nil, true, nil
	}
	br, err := decimal.NewFromString(*bankroll)
	if err != nil {
		return nil, false, fmt.Errorf("bankroll %q: %w", *bankroll, err)
	}
	return &Config{
		Input:     *input,
		Output:    *output,
		Date:      *date,
		Timezone:  *tz,
		Bankroll:  br,
		Legs:      *legs,
		Dynamic:   *dynamic,
		RulesFile: *rulesF,
		Verbose:   *verbose,
	}, false, nil
}

// ShowHelp prints usage information for the replay tool.
func ShowHelp(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	_, _ = io.WriteString(w, `V-Strike Replay Tool
====================

Builds a daily set offline from a recorded odds snapshot. When the snapshot
also carries scores the set is graded and analyzed.

Usage:
  go run ./cmd/replay -input snapshot.json [options]

Options:
  -input string
        Snapshot file with recorded odds (required)
  -output string
        Report file (default: stdout)
  -date string
        Day to build as YYYY-MM-DD (default: today)
  -tz string
        IANA time zone of the day (default "America/New_York")
  -bankroll string
        Starting bankroll (default "20")
  -legs int
        Parley size
  -dynamic
        Size parleys from the pick count
  -rules string
        Rules file (default: built-in rules)
  -verbose
        Log every pick
  -help
        Show this help message

Snapshot format:
  {"odds": {"basketball_nba": [<odds api events>]},
   "scores": {"basketball_nba": [<odds api score entries>]}}
  A bare list of events with sport_key set is accepted too.
`)
}
