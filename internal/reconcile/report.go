package reconcile

import (
	"fmt"
	"strings"

	"github.com/Vodeneev/statjoin/internal/pkg/models"
)

// Status classifies a reconciliation outcome for diagnostics.
type Status string

const (
	StatusNoPicks   Status = "no_picks"   // nothing to reconcile
	StatusNoStats   Status = "no_stats"   // zero stat rows were loaded
	StatusNoMatches Status = "no_matches" // stats loaded, no pick matched
	StatusPartial   Status = "partial"
	StatusComplete  Status = "complete"
)

// Report summarizes a JoinResult.
type Report struct {
	Status             Status   `json:"status"`
	Picks              int      `json:"picks"`
	Stats              int      `json:"stats"`
	Matched            int      `json:"matched"`
	UnmatchedPicks     int      `json:"unmatched_picks"`
	UnmatchedStats     int      `json:"unmatched_stats"`
	UnmatchedPickNames []string `json:"unmatched_pick_names"`
	UnmatchedStatNames []string `json:"unmatched_stat_names"`
}

// NewReport builds the report for res. picks and stats are the input sizes
// given to Reconcile; they are not derivable from res when stat keys repeat.
func NewReport(picks, stats int, res models.JoinResult) Report {
	r := Report{
		Picks:              picks,
		Stats:              stats,
		Matched:            len(res.Matched),
		UnmatchedPicks:     len(res.UnmatchedPicks),
		UnmatchedStats:     len(res.UnmatchedStats),
		UnmatchedPickNames: make([]string, 0, len(res.UnmatchedPicks)),
		UnmatchedStatNames: make([]string, 0, len(res.UnmatchedStats)),
	}
	for _, p := range res.UnmatchedPicks {
		r.UnmatchedPickNames = append(r.UnmatchedPickNames, p.TeamName)
	}
	for _, s := range res.UnmatchedStats {
		r.UnmatchedStatNames = append(r.UnmatchedStatNames, s.TeamName)
	}

	switch {
	case picks == 0:
		r.Status = StatusNoPicks
	case stats == 0:
		r.Status = StatusNoStats
	case r.Matched == 0:
		r.Status = StatusNoMatches
	case r.UnmatchedPicks > 0:
		r.Status = StatusPartial
	default:
		r.Status = StatusComplete
	}
	return r
}

// OK reports whether every pick found stats.
func (r Report) OK() bool {
	return r.Status == StatusComplete
}

// Message renders a one-line diagnostic for the report.
func (r Report) Message() string {
	switch r.Status {
	case StatusNoPicks:
		return "no picks to reconcile"
	case StatusNoStats:
		return "no team stats loaded"
	case StatusNoMatches:
		return fmt.Sprintf("no matching stats found for these picks: %s", quoteNames(r.UnmatchedPickNames))
	case StatusPartial:
		return fmt.Sprintf("matched %d of %d picks; no matching stats found for these picks: %s",
			r.Matched, r.Picks, quoteNames(r.UnmatchedPickNames))
	default:
		return fmt.Sprintf("matched all %d picks", r.Picks)
	}
}

func quoteNames(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(q, ", ")
}
