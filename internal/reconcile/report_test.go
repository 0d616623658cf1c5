package reconcile

import (
	"strings"
	"testing"

	"github.com/Vodeneev/statjoin/internal/pkg/models"
)

func TestNewReport_EndToEnd(t *testing.T) {
	picks := []models.PickRecord{pick("Las Vegas Aces"), pick("Unknown Team")}
	stats := []models.StatRecord{stat("aces", 10), stat("Liberty", 8)}

	r := NewReport(len(picks), len(stats), Reconcile(picks, stats))

	if r.Status != StatusPartial {
		t.Errorf("Status = %q, want %q", r.Status, StatusPartial)
	}
	if r.Picks != 2 || r.Stats != 2 || r.Matched != 1 || r.UnmatchedPicks != 1 || r.UnmatchedStats != 1 {
		t.Errorf("counts = %+v", r)
	}
	if len(r.UnmatchedPickNames) != 1 || r.UnmatchedPickNames[0] != "Unknown Team" {
		t.Errorf("UnmatchedPickNames = %v", r.UnmatchedPickNames)
	}
	if len(r.UnmatchedStatNames) != 1 || r.UnmatchedStatNames[0] != "Liberty" {
		t.Errorf("UnmatchedStatNames = %v", r.UnmatchedStatNames)
	}
	if msg := r.Message(); !strings.Contains(msg, `"Unknown Team"`) || !strings.Contains(msg, "1 of 2") {
		t.Errorf("Message() = %q", msg)
	}
	if r.OK() {
		t.Errorf("partial report should not be OK")
	}
}

func TestNewReport_Status(t *testing.T) {
	tests := []struct {
		name  string
		picks []models.PickRecord
		stats []models.StatRecord
		want  Status
	}{
		{"no picks", nil, []models.StatRecord{stat("Aces", 1)}, StatusNoPicks},
		{"no stats loaded", []models.PickRecord{pick("Aces")}, nil, StatusNoStats},
		{"stats loaded none matched", []models.PickRecord{pick("Aces")}, []models.StatRecord{stat("Sky", 1)}, StatusNoMatches},
		{"partial", []models.PickRecord{pick("Aces"), pick("Storm")}, []models.StatRecord{stat("Aces", 1)}, StatusPartial},
		{"complete", []models.PickRecord{pick("Aces")}, []models.StatRecord{stat("Aces", 1), stat("Sky", 2)}, StatusComplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport(len(tt.picks), len(tt.stats), Reconcile(tt.picks, tt.stats))
			if r.Status != tt.want {
				t.Errorf("Status = %q, want %q", r.Status, tt.want)
			}
		})
	}
}

func TestReport_DistinguishesNoStatsFromNoMatches(t *testing.T) {
	picks := []models.PickRecord{pick("Aces")}

	empty := NewReport(1, 0, Reconcile(picks, nil))
	miss := NewReport(1, 1, Reconcile(picks, []models.StatRecord{stat("Sky", 1)}))

	if empty.Status == miss.Status {
		t.Fatalf("both reports have status %q", empty.Status)
	}
	if empty.Message() == miss.Message() {
		t.Errorf("messages should differ, both %q", empty.Message())
	}
	if empty.Message() != "no team stats loaded" {
		t.Errorf("empty.Message() = %q", empty.Message())
	}
	if !strings.Contains(miss.Message(), "no matching stats found") {
		t.Errorf("miss.Message() = %q", miss.Message())
	}
}

func TestReport_DuplicateStatsCountedFromInput(t *testing.T) {
	stats := []models.StatRecord{stat("Aces", 10), stat("Aces", 99)}
	r := NewReport(1, len(stats), Reconcile([]models.PickRecord{pick("Aces")}, stats))
	if r.Stats != 2 || r.UnmatchedStats != 0 || r.Status != StatusComplete {
		t.Errorf("report = %+v", r)
	}
	if r.Message() != "matched all 1 picks" {
		t.Errorf("Message() = %q", r.Message())
	}
}
