package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so query code can run inside
// or outside an explicit transaction
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// orderBy resolves a sortBy/sortDir pair against a column allow-list.
// Unknown sort keys fall back to the default clause; direction is normalized
// to ASC/DESC so neither value ever reaches the query from unchecked input.
func orderBy(allowed map[string]string, sortBy, sortDir, defaultClause string) string {
	column, ok := allowed[sortBy]
	if !ok {
		return defaultClause
	}

	dir := "ASC"
	if strings.EqualFold(sortDir, "desc") {
		dir = "DESC"
	}

	return column + " " + dir
}

// buildSetClause translates a partial-update body into SET fragments using an
// explicit jsonKey to column allow-list. Unknown keys are rejected rather than
// silently dropped.
func buildSetClause(allowed map[string]string, fields map[string]any) ([]string, []any, error) {
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("no fields to update")
	}

	// Stable column order keeps generated statements deterministic
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var setParts []string
	var args []any

	for _, key := range keys {
		column, ok := allowed[key]
		if !ok {
			return nil, nil, fmt.Errorf("field %q is not updatable", key)
		}
		setParts = append(setParts, column+" = ?")
		args = append(args, fields[key])
	}

	return setParts, args, nil
}
