package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Row maps a column name to its raw cell text.
type Row map[string]string

// UnmarshalJSON accepts string, number, bool and null cells. Numbers keep
// their literal text so ParseNumber sees exactly what was sent; null is "".
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*r = nil
		return nil
	}
	row := make(Row, len(raw))
	for k, v := range raw {
		cell, err := jsonCellText(v)
		if err != nil {
			return fmt.Errorf("column %q: %w", k, err)
		}
		row[k] = cell
	}
	*r = row
	return nil
}

func jsonCellText(v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "", nil
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("unsupported cell value %s", v)
	}
	if string(v) == "null" {
		return "", nil
	}
	return string(v), nil
}

// Table is raw tabular data from a stats source, rows in source order.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Loaded is a validated table whose headers are trimmed and whose team column is known.
type Loaded struct {
	Table
	TeamColumn string
}

// Load trims headers and checks that teamColumn is present, compared
// case-insensitively against the trimmed header names.
// It returns a *SchemaError when the column is missing. The input table is not modified.
func Load(raw Table, teamColumn string) (*Loaded, error) {
	want := strings.TrimSpace(teamColumn)

	header := raw.Columns
	if len(header) == 0 {
		header = rowColumns(raw.Rows)
	}
	columns := make([]string, len(header))
	for i, c := range header {
		columns[i] = strings.TrimSpace(c)
	}

	resolved := ""
	found := false
	for _, c := range columns {
		if strings.EqualFold(c, want) {
			resolved = c
			found = true
			break
		}
	}
	if !found {
		return nil, &SchemaError{Column: teamColumn, Available: columns}
	}

	rows := make([]Row, len(raw.Rows))
	for i, r := range raw.Rows {
		trimmed := make(Row, len(r))
		for k, v := range r {
			trimmed[strings.TrimSpace(k)] = v
		}
		rows[i] = trimmed
	}

	return &Loaded{
		Table:      Table{Columns: columns, Rows: rows},
		TeamColumn: resolved,
	}, nil
}

// rowColumns derives a header from row keys: first-seen order across rows,
// sorted within each row.
func rowColumns(rows []Row) []string {
	var columns []string
	seen := make(map[string]bool)
	for _, r := range rows {
		keys := make([]string, 0, len(r))
		for k := range r {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = true
			columns = append(columns, k)
		}
	}
	return columns
}
