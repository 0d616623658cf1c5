package reconcile

import (
	"github.com/Vodeneev/statjoin/internal/pkg/models"
)

// Option configures a Reconcile call.
type Option func(*options)

type options struct {
	matcher Matcher
}

// ExactOnly turns off fallback matching: a pick matches a stat only when
// their normalized keys are equal.
func ExactOnly() Option {
	return func(o *options) { o.matcher = nil }
}

// WithMatcher replaces the fallback used for picks without an exact key.
func WithMatcher(m Matcher) Option {
	return func(o *options) { o.matcher = m }
}

// Reconcile joins picks to stats by normalized team name.
//
// Stats are indexed by key with the last row winning on duplicates. Each pick,
// in order, is matched by exact key, then by the fallback matcher (MascotSuffix
// unless overridden). Stats whose key no pick hit are returned in input order.
// Inputs are not modified. Empty inputs produce an empty, non-nil result.
func Reconcile(picks []models.PickRecord, stats []models.StatRecord, opts ...Option) models.JoinResult {
	o := options{matcher: MascotSuffix{}}
	for _, opt := range opts {
		opt(&o)
	}

	idx := newIndex(stats)
	hit := make(map[string]bool, len(idx.keys))

	res := models.JoinResult{
		Matched:        make([]models.MatchedPair, 0, len(picks)),
		UnmatchedPicks: make([]models.PickRecord, 0),
		UnmatchedStats: make([]models.StatRecord, 0),
	}

	for _, p := range picks {
		k := models.NormalizeTeamKey(p.TeamName)
		s, ok := idx.byKey[k]
		if !ok && o.matcher != nil {
			if fk, found := o.matcher.Fallback(k, idx.keys); found {
				s, ok = idx.byKey[fk]
				k = fk
			}
		}
		if !ok {
			res.UnmatchedPicks = append(res.UnmatchedPicks, p)
			continue
		}
		hit[k] = true
		res.Matched = append(res.Matched, models.MatchedPair{Pick: p, Stat: s})
	}

	for _, r := range idx.rows {
		if !hit[r.key] {
			res.UnmatchedStats = append(res.UnmatchedStats, r.stat)
		}
	}
	return res
}
