// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Keys are flat so every field maps to one VSTRIKE_ env variable.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"time"
	_ "time/tzdata" // zone data for minimal images
)

// Sport titles for the feed keys the engine knows about.
var sportTitles = map[string]string{
	"basketball_nba":         "NBA",
	"americanfootball_nfl":   "NFL",
	"baseball_mlb":           "MLB",
	"icehockey_nhl":          "NHL",
	"soccer_epl":             "EPL",
	"soccer_spain_la_liga":   "La Liga",
	"basketball_ncaab":       "NCAAB",
	"americanfootball_ncaaf": "NCAAF",
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Timezone is the IANA zone whose calendar day a set belongs to.
	Timezone string `koanf:"timezone"`

	// Odds feed.
	APIKeys        []string      `koanf:"api_keys"`
	OddsBaseURL    string        `koanf:"odds_base_url"`
	Regions        string        `koanf:"regions"`
	Sports         []string      `koanf:"sports"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	RateLimitRPS   float64       `koanf:"rate_limit_rps"`
	RateLimitBurst int           `koanf:"rate_limit_burst"`
	MaxRetries     int           `koanf:"max_retries"`

	// Engine.
	Bankroll          float64  `koanf:"bankroll"`
	ParleyLegs        int      `koanf:"parley_legs"`
	DynamicParleySize bool     `koanf:"dynamic_parley_size"`
	MaxPerSport       int      `koanf:"max_per_sport"`
	ReferenceBooks    []string `koanf:"reference_books"`
	SharpBook         string   `koanf:"sharp_book"`
	RulesFile         string   `koanf:"rules_file"`

	// Persistence: memory, redis or postgres.
	StoreBackend  string `koanf:"store_backend"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	PostgresDSN   string `koanf:"postgres_dsn"`

	// Injury feed.
	InjuriesEnabled  bool     `koanf:"injuries_enabled"`
	InjuriesProvider string   `koanf:"injuries_provider"`
	InjuriesURL      string   `koanf:"injuries_url"`
	InjuriesKeys     []string `koanf:"injuries_keys"`

	// Daily schedule as HH:MM in Timezone.
	GenerateAt string `koanf:"schedule_generate_at"`
	GradeAt    string `koanf:"schedule_grade_at"`

	// QueueSize bounds pending engine jobs.
	QueueSize int `koanf:"queue_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		Timezone:         "America/New_York",
		OddsBaseURL:      "https://api.the-odds-api.com/v4/sports",
		Regions:          "us",
		Sports:           []string{"basketball_nba", "americanfootball_nfl", "baseball_mlb", "icehockey_nhl"},
		CacheTTL:         12 * time.Hour,
		RateLimitRPS:     2,
		RateLimitBurst:   1,
		MaxRetries:       3,
		Bankroll:         20.00,
		ParleyLegs:       3,
		MaxPerSport:      4,
		ReferenceBooks:   []string{"draftkings", "fanduel", "williamhill", "mgm", "bovada"},
		SharpBook:        "pinnacle",
		StoreBackend:     "memory",
		RedisAddr:        "localhost:6379",
		InjuriesProvider: "apisports",
		GenerateAt:       "09:00",
		GradeAt:          "08:00",
		QueueSize:        64,
	}
}

// SportTitle returns the display title of a feed sport key, or the key
// itself when unknown.
func SportTitle(key string) string {
	if t, ok := sportTitles[key]; ok {
		return t
	}
	return key
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
