package reconcile

import (
	"strings"

	"github.com/Vodeneev/statjoin/internal/pkg/models"
)

// Matcher resolves a pick key that has no exact stat key.
// keys holds every distinct stat key present in the index.
// It returns the stat key to use and whether one was found.
type Matcher interface {
	Fallback(pickKey string, keys []string) (string, bool)
}

// MascotSuffix matches a pick to the stat whose key is a suffix of the pick key,
// so a full "Las Vegas Aces" pick finds a mascot-only "Aces" row.
// When several keys qualify the longest one wins. Empty keys never qualify.
type MascotSuffix struct{}

func (MascotSuffix) Fallback(pickKey string, keys []string) (string, bool) {
	if pickKey == "" {
		return "", false
	}
	best := ""
	for _, k := range keys {
		if k == "" || len(k) >= len(pickKey) {
			continue
		}
		if strings.HasSuffix(pickKey, k) && len(k) > len(best) {
			best = k
		}
	}
	return best, best != ""
}

// keyed pairs a stat with its normalized key.
type keyed struct {
	key  string
	stat models.StatRecord
}

// index is a normalized key to stat lookup where later rows overwrite earlier ones.
type index struct {
	byKey map[string]models.StatRecord
	keys  []string // distinct keys, first-seen order
	rows  []keyed  // every stat in input order
}

func newIndex(stats []models.StatRecord) *index {
	idx := &index{
		byKey: make(map[string]models.StatRecord, len(stats)),
		rows:  make([]keyed, 0, len(stats)),
	}
	for _, s := range stats {
		k := models.NormalizeTeamKey(s.TeamName)
		if _, seen := idx.byKey[k]; !seen {
			idx.keys = append(idx.keys, k)
		}
		idx.byKey[k] = s
		idx.rows = append(idx.rows, keyed{key: k, stat: s})
	}
	return idx
}
