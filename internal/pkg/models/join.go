package models

// MatchedPair joins a pick with the stat row found for its team.
type MatchedPair struct {
	Pick PickRecord `json:"pick"`
	Stat StatRecord `json:"stat"`
}

// JoinResult is the outcome of one reconciliation pass.
// Matched and UnmatchedPicks follow pick input order, UnmatchedStats follows stat input order.
type JoinResult struct {
	Matched        []MatchedPair `json:"matched"`
	UnmatchedPicks []PickRecord  `json:"unmatched_picks"`
	UnmatchedStats []StatRecord  `json:"unmatched_stats"`
}
