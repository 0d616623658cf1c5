package stats

import (
	"math"
	"strconv"
	"strings"

	"github.com/Vodeneev/statjoin/internal/pkg/models"
)

// Records converts the table into stat records, one per row in table order.
// Every column except the team column is coerced to a number; cells that are
// empty or not numeric are left out of the record's Stats.
func (l *Loaded) Records() []models.StatRecord {
	if l == nil {
		return nil
	}
	records := make([]models.StatRecord, 0, len(l.Rows))
	for _, row := range l.Rows {
		rec := models.StatRecord{
			TeamName: strings.TrimSpace(row[l.TeamColumn]),
			Stats:    make(map[string]float64, len(l.Columns)-1),
		}
		for _, col := range l.Columns {
			if col == l.TeamColumn {
				continue
			}
			v, ok := ParseNumber(row[col])
			if !ok {
				continue
			}
			if _, dup := rec.Stats[col]; !dup {
				rec.Fields = append(rec.Fields, col)
			}
			rec.Stats[col] = v
		}
		records = append(records, rec)
	}
	return records
}

// ParseNumber parses a spreadsheet cell such as "1,204", "57.3%" or " -2 ".
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.TrimPrefix(s, "+")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
