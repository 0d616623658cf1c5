package reconcile

import (
	"fmt"
	"testing"

	"github.com/Vodeneev/statjoin/internal/pkg/models"
)

func pick(team string) models.PickRecord {
	return models.PickRecord{TeamName: team, Side: models.SideHome}
}

func stat(team string, wins float64) models.StatRecord {
	return models.StatRecord{TeamName: team, Stats: map[string]float64{"Wins": wins}, Fields: []string{"Wins"}}
}

func teamNames(picks []models.PickRecord) []string {
	out := make([]string, len(picks))
	for i, p := range picks {
		out[i] = p.TeamName
	}
	return out
}

func TestReconcile_EndToEnd(t *testing.T) {
	picks := []models.PickRecord{pick("Las Vegas Aces"), pick("Unknown Team")}
	stats := []models.StatRecord{stat("aces", 10), stat("Liberty", 8)}

	res := Reconcile(picks, stats)

	if len(res.Matched) != 1 {
		t.Fatalf("matched = %d, want 1", len(res.Matched))
	}
	if res.Matched[0].Pick.TeamName != "Las Vegas Aces" || res.Matched[0].Stat.TeamName != "aces" {
		t.Errorf("matched pair = %q/%q, want Las Vegas Aces/aces",
			res.Matched[0].Pick.TeamName, res.Matched[0].Stat.TeamName)
	}
	if len(res.UnmatchedPicks) != 1 || res.UnmatchedPicks[0].TeamName != "Unknown Team" {
		t.Errorf("unmatched picks = %v, want [Unknown Team]", teamNames(res.UnmatchedPicks))
	}
	if len(res.UnmatchedStats) != 1 || res.UnmatchedStats[0].TeamName != "Liberty" {
		t.Errorf("unmatched stats = %+v, want [Liberty]", res.UnmatchedStats)
	}
}

func TestReconcile_NearMisses(t *testing.T) {
	tests := []struct {
		pick  string
		stat  string
		match bool
	}{
		{"St. Louis Cardinals", "St Louis Cardinals", true},
		{"NEW-YORK LIBERTY", "new york liberty", true},
		{"New York Mets", "New York Yankees", false},
		{"Chicago Sky", "Chicago Fire", false},
		{"LA Sparks", "Los Angeles Sparks", false},
	}

	for _, mode := range []struct {
		name string
		opts []Option
	}{{"default", nil}, {"exact", []Option{ExactOnly()}}} {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/%s~%s", mode.name, tt.pick, tt.stat), func(t *testing.T) {
				res := Reconcile([]models.PickRecord{pick(tt.pick)}, []models.StatRecord{stat(tt.stat, 1)}, mode.opts...)
				if got := len(res.Matched) == 1; got != tt.match {
					t.Errorf("match(%q, %q) = %v, want %v", tt.pick, tt.stat, got, tt.match)
				}
			})
		}
	}
}

func TestReconcile_ExactOnlyMatchesIffKeysEqual(t *testing.T) {
	names := []string{
		"Las Vegas Aces", "aces", "ACES", "Liberty", "New York Liberty",
		"St. Louis Cardinals", "St Louis Cardinals", "", "  ", "Mets", "Yankees",
	}
	for _, p := range names {
		for _, s := range names {
			res := Reconcile([]models.PickRecord{pick(p)}, []models.StatRecord{stat(s, 1)}, ExactOnly())
			want := models.NormalizeTeamKey(p) == models.NormalizeTeamKey(s)
			if got := len(res.Matched) == 1; got != want {
				t.Errorf("ExactOnly match(%q, %q) = %v, want %v", p, s, got, want)
			}
		}
	}
}

func TestReconcile_ExactOnlyDisablesMascotFallback(t *testing.T) {
	res := Reconcile([]models.PickRecord{pick("Las Vegas Aces")}, []models.StatRecord{stat("aces", 10)}, ExactOnly())
	if len(res.Matched) != 0 {
		t.Errorf("ExactOnly should not match Las Vegas Aces to aces")
	}
	if len(res.UnmatchedPicks) != 1 || len(res.UnmatchedStats) != 1 {
		t.Errorf("unmatched = %d picks / %d stats, want 1/1", len(res.UnmatchedPicks), len(res.UnmatchedStats))
	}
}

func TestReconcile_DuplicateStatKeyLastWins(t *testing.T) {
	stats := []models.StatRecord{stat("Aces", 10), stat("Aces", 99)}
	res := Reconcile([]models.PickRecord{pick("Aces")}, stats)

	if len(res.Matched) != 1 {
		t.Fatalf("matched = %d, want 1", len(res.Matched))
	}
	if got := res.Matched[0].Stat.Stats["Wins"]; got != 99 {
		t.Errorf("matched Wins = %v, want 99 (last row wins)", got)
	}
	if len(res.UnmatchedStats) != 0 {
		t.Errorf("overwritten duplicate should not be reported unmatched, got %+v", res.UnmatchedStats)
	}
}

func TestReconcile_Completeness(t *testing.T) {
	picks := []models.PickRecord{
		pick("Las Vegas Aces"), pick("Phoenix Mercury"), pick(""), pick("Chicago Sky"),
		pick("Aces"), pick("New York Liberty"), pick("Seattle Storm"),
	}
	stats := []models.StatRecord{
		stat("Aces", 1), stat("Liberty", 2), stat("Chicago Sky", 3), stat("", 4), stat("Dallas Wings", 5),
	}
	for _, opts := range [][]Option{nil, {ExactOnly()}} {
		res := Reconcile(picks, stats, opts...)
		if got := len(res.Matched) + len(res.UnmatchedPicks); got != len(picks) {
			t.Errorf("matched+unmatched picks = %d, want %d", got, len(picks))
		}
	}
}

func TestReconcile_PreservesOrder(t *testing.T) {
	picks := []models.PickRecord{pick("Sky"), pick("Unknown A"), pick("Aces"), pick("Unknown B"), pick("Sky")}
	stats := []models.StatRecord{stat("Wings", 1), stat("Aces", 2), stat("Storm", 3), stat("Sky", 4)}

	res := Reconcile(picks, stats)

	wantMatched := []string{"Sky", "Aces", "Sky"}
	if len(res.Matched) != len(wantMatched) {
		t.Fatalf("matched = %d, want %d", len(res.Matched), len(wantMatched))
	}
	for i, w := range wantMatched {
		if res.Matched[i].Pick.TeamName != w {
			t.Errorf("Matched[%d] = %q, want %q", i, res.Matched[i].Pick.TeamName, w)
		}
	}
	if got := teamNames(res.UnmatchedPicks); len(got) != 2 || got[0] != "Unknown A" || got[1] != "Unknown B" {
		t.Errorf("unmatched picks = %v, want [Unknown A Unknown B]", got)
	}
	if len(res.UnmatchedStats) != 2 || res.UnmatchedStats[0].TeamName != "Wings" || res.UnmatchedStats[1].TeamName != "Storm" {
		t.Errorf("unmatched stats = %+v, want [Wings Storm]", res.UnmatchedStats)
	}
}

func TestReconcile_EmptyInputs(t *testing.T) {
	res := Reconcile(nil, nil)
	if res.Matched == nil || res.UnmatchedPicks == nil || res.UnmatchedStats == nil {
		t.Errorf("empty reconcile should return non-nil slices: %+v", res)
	}

	res = Reconcile([]models.PickRecord{pick("Aces")}, nil)
	if len(res.Matched) != 0 || len(res.UnmatchedPicks) != 1 {
		t.Errorf("no stats: matched=%d unmatched=%d, want 0/1", len(res.Matched), len(res.UnmatchedPicks))
	}

	res = Reconcile(nil, []models.StatRecord{stat("Aces", 1)})
	if len(res.Matched) != 0 || len(res.UnmatchedStats) != 1 {
		t.Errorf("no picks: matched=%d unmatched stats=%d, want 0/1", len(res.Matched), len(res.UnmatchedStats))
	}
}

func TestReconcile_EmptyKeyIsOwnClass(t *testing.T) {
	picks := []models.PickRecord{pick(""), pick("--")}
	res := Reconcile(picks, []models.StatRecord{stat("Aces", 1)})
	if len(res.Matched) != 0 {
		t.Errorf("empty pick key matched a named stat")
	}

	res = Reconcile(picks, []models.StatRecord{stat("  ", 7)})
	if len(res.Matched) != 2 {
		t.Errorf("empty keys should match each other, matched=%d", len(res.Matched))
	}
}

func TestReconcile_DoesNotMutateInputs(t *testing.T) {
	picks := []models.PickRecord{pick("Aces")}
	stats := []models.StatRecord{stat("Aces", 1)}
	_ = Reconcile(picks, stats)
	if picks[0].TeamName != "Aces" || stats[0].TeamName != "Aces" || stats[0].Stats["Wins"] != 1 {
		t.Errorf("inputs changed: %+v %+v", picks, stats)
	}
}

func TestMascotSuffix_LongestWins(t *testing.T) {
	keys := []string{"sky", "chicagosky", "", "ky"}
	got, ok := MascotSuffix{}.Fallback("westchicagosky", keys)
	if !ok || got != "chicagosky" {
		t.Errorf("Fallback = %q, %v; want chicagosky, true", got, ok)
	}
	if _, ok := (MascotSuffix{}).Fallback("", keys); ok {
		t.Errorf("empty pick key should never fall back")
	}
	if _, ok := (MascotSuffix{}).Fallback("sky", []string{"sky"}); ok {
		t.Errorf("equal key is an exact match, not a fallback")
	}
}

type aliasMatcher map[string]string

func (a aliasMatcher) Fallback(pickKey string, _ []string) (string, bool) {
	k, ok := a[pickKey]
	return k, ok
}

func TestReconcile_WithMatcher(t *testing.T) {
	m := aliasMatcher{"lasparks": "losangelessparks", "ghost": "nosuchteam"}
	picks := []models.PickRecord{pick("LA Sparks"), pick("Ghost")}
	stats := []models.StatRecord{stat("Los Angeles Sparks", 3)}

	res := Reconcile(picks, stats, WithMatcher(m))
	if len(res.Matched) != 1 || res.Matched[0].Stat.TeamName != "Los Angeles Sparks" {
		t.Errorf("alias match failed: %+v", res.Matched)
	}
	if len(res.UnmatchedPicks) != 1 || res.UnmatchedPicks[0].TeamName != "Ghost" {
		t.Errorf("alias to a missing key must stay unmatched: %v", teamNames(res.UnmatchedPicks))
	}
}
