package replay

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config holds configuration for a replay run.
type Config struct {
	Input     string           // Snapshot file with odds and optional scores
	Output    string           // Report file; stdout when empty
	Date      string           // Day to build, YYYY-MM-DD; today when empty
	Timezone  string           // IANA zone of the day
	Bankroll  decimal.Decimal  // Starting bankroll
	Legs      int              // Parley size
	Dynamic   bool             // Size parleys from the pick count
	RulesFile string           // Optional rules file
	Verbose   bool             // Log per-fact detail
	Now       func() time.Time // Clock; time.Now when nil
}
