package model

// Tunable strategy parameter names as they appear in insights and overrides.
const (
	ParamFavOddsMax         = "favOddsMax"
	ParamModerateDogPenalty = "moderateDogPenalty"
	ParamHighRiskPenalty    = "highRiskPenalty"
	ParamLowRiskBonus       = "lowRiskBonus"
	ParamHomeBonus          = "homeBonus"
)

// Params are the strategy knobs the feedback loop may adjust.
type Params struct {
	// FavOddsMax is the heaviest favorite price still accepted (e.g. -900).
	FavOddsMax         int `json:"favOddsMax"`
	ModerateDogPenalty int `json:"moderateDogPenalty"`
	HighRiskPenalty    int `json:"highRiskPenalty"`
	LowRiskBonus       int `json:"lowRiskBonus"`
	HomeBonus          int `json:"homeBonus"`
}

// DefaultParams returns the baseline strategy.
func DefaultParams() Params {
	return Params{
		FavOddsMax:         -900,
		ModerateDogPenalty: -20,
		HighRiskPenalty:    -15,
		LowRiskBonus:       10,
		HomeBonus:          5,
	}
}

// Get returns the value of a named parameter.
func (p Params) Get(name string) (int, bool) {
	switch name {
	case ParamFavOddsMax:
		return p.FavOddsMax, true
	case ParamModerateDogPenalty:
		return p.ModerateDogPenalty, true
	case ParamHighRiskPenalty:
		return p.HighRiskPenalty, true
	case ParamLowRiskBonus:
		return p.LowRiskBonus, true
	case ParamHomeBonus:
		return p.HomeBonus, true
	default:
		return 0, false
	}
}

// Set assigns a named parameter. Unknown names are rejected.
func (p *Params) Set(name string, v int) bool {
	switch name {
	case ParamFavOddsMax:
		p.FavOddsMax = v
	case ParamModerateDogPenalty:
		p.ModerateDogPenalty = v
	case ParamHighRiskPenalty:
		p.HighRiskPenalty = v
	case ParamLowRiskBonus:
		p.LowRiskBonus = v
	case ParamHomeBonus:
		p.HomeBonus = v
	default:
		return false
	}
	return true
}
