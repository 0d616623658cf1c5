package stats

import (
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	in := "\ufeffTeam , Wins,Losses\nLas Vegas Aces,10,2\n\n,,\nChicago Sky,4\n"
	tbl, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(tbl.Columns) != 3 || tbl.Columns[0] != "Team " {
		t.Fatalf("Columns = %q", tbl.Columns)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (blank rows skipped)", tbl.Len())
	}
	if got := tbl.Rows[1]["Losses"]; got != "" {
		t.Errorf("short row Losses = %q, want empty", got)
	}

	loaded, err := Load(tbl, "team")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	recs := loaded.Records()
	if recs[0].TeamName != "Las Vegas Aces" || recs[0].Stats["Wins"] != 10 {
		t.Errorf("first record = %+v", recs[0])
	}
}

func TestReadCSV_Empty(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV(empty) error = %v", err)
	}
	if len(tbl.Columns) != 0 || tbl.Len() != 0 {
		t.Errorf("ReadCSV(empty) = %+v, want empty table", tbl)
	}
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Team,Wins\n\"Aces,10\n"))
	if err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}

func TestReadHTML_WithTH(t *testing.T) {
	page := `<html><body>
<table id="other"><tr><td>ignore</td></tr></table>
<table class="stats">
  <thead><tr><th>Team</th><th>W</th><th>L</th></tr></thead>
  <tbody>
    <tr><td><a href="/aces">Las  Vegas
      Aces</a></td><td>10</td><td>2</td></tr>
    <tr><td>New York Liberty</td><td>8</td><td>4</td></tr>
  </tbody>
</table></body></html>`

	tbl, err := ReadHTML(strings.NewReader(page), "table.stats")
	if err != nil {
		t.Fatalf("ReadHTML() error = %v", err)
	}
	if strings.Join(tbl.Columns, "|") != "Team|W|L" {
		t.Errorf("Columns = %v", tbl.Columns)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if got := tbl.Rows[0]["Team"]; got != "Las Vegas Aces" {
		t.Errorf("Team cell = %q, want collapsed whitespace", got)
	}
	if got := tbl.Rows[1]["L"]; got != "4" {
		t.Errorf("L cell = %q, want 4", got)
	}
}

func TestReadHTML_HeaderFromFirstRow(t *testing.T) {
	page := `<table><tr><td>Team</td><td>Wins</td></tr><tr><td>Sky</td><td>4</td></tr></table>`
	tbl, err := ReadHTML(strings.NewReader(page), "")
	if err != nil {
		t.Fatalf("ReadHTML() error = %v", err)
	}
	if len(tbl.Columns) != 2 || tbl.Columns[1] != "Wins" {
		t.Errorf("Columns = %v", tbl.Columns)
	}
	if tbl.Len() != 1 || tbl.Rows[0]["Team"] != "Sky" {
		t.Errorf("Rows = %v", tbl.Rows)
	}
}

func TestReadHTML_NoTable(t *testing.T) {
	_, err := ReadHTML(strings.NewReader("<p>nothing</p>"), "table")
	if err == nil {
		t.Fatal("expected error when no table matches")
	}
}
