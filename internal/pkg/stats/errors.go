package stats

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema is matched by errors.Is for every *SchemaError.
var ErrSchema = errors.New("stats schema error")

// SchemaError reports that the team-name column is missing from a stats table.
type SchemaError struct {
	Column    string
	Available []string
}

func (e *SchemaError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column %q not found: table has no columns", e.Column)
	}
	return fmt.Sprintf("column %q not found in stats table (columns: %s)", e.Column, strings.Join(e.Available, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
