package models

import "time"

// Side is the side of a matchup a pick backs.
type Side string

const (
	SideHome Side = "Home"
	SideAway Side = "Away"
)

// Valid reports whether s is one of the known sides.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// PickRecord is one recommendation produced by an odds feed or pick generator.
type PickRecord struct {
	Matchup      string    `json:"matchup"`
	TeamName     string    `json:"team_name"`
	Side         Side      `json:"side"`
	Odds         int       `json:"odds"`       // American format: -150, +120
	Confidence   float64   `json:"confidence"`
	Bookmaker    string    `json:"bookmaker,omitempty"`
	CommenceTime time.Time `json:"commence_time,omitzero"`
}

// StatRecord is one team row from a stats source.
type StatRecord struct {
	TeamName string             `json:"team_name"`
	Stats    map[string]float64 `json:"stats"`
	// Fields lists the stat names in source column order.
	Fields []string `json:"fields,omitempty"`
}

// Stat returns the named stat and whether it was present.
func (s StatRecord) Stat(name string) (float64, bool) {
	v, ok := s.Stats[name]
	return v, ok
}
