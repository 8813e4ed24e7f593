// Package ordering computes self-assigned positions for rows ordered inside a parent
package ordering

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Querier is the subset of *sql.DB and *sql.Tx used to read the current maximum
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Field describes an integer position column of a table, optionally scoped
// to sibling columns (e.g. positions counted per course_id).
//
// The next value is derived from committed rows with no locking, so two
// concurrent inserts into the same scope can receive the same position.
type Field struct {
	Table  string
	Column string
	Scope  []string
}

// NewField creates a position field for table.column scoped to the given columns
func NewField(table, column string, scope ...string) Field {
	return Field{
		Table:  table,
		Column: column,
		Scope:  scope,
	}
}

// Next returns the position a new row should receive: 0 when no sibling
// exists in the scope, otherwise the current maximum + 1.
//
// "scopeValues" must contain one value per scope column, in the same order.
func (f Field) Next(ctx context.Context, q Querier, scopeValues ...any) (int, error) {
	if len(scopeValues) != len(f.Scope) {
		return 0, fmt.Errorf("ordering: %s.%s expects %d scope values, got %d", f.Table, f.Column, len(f.Scope), len(scopeValues))
	}

	var max sql.NullInt64
	if err := q.QueryRowContext(ctx, f.maxQuery(), scopeValues...).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max %s of %s: %w", f.Column, f.Table, err)
	}

	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// Resolve returns *current unchanged when it is set and computes Next otherwise
func (f Field) Resolve(ctx context.Context, q Querier, current *int, scopeValues ...any) (int, error) {
	if current != nil {
		return *current, nil
	}
	return f.Next(ctx, q, scopeValues...)
}

func (f Field) maxQuery() string {
	query := fmt.Sprintf("SELECT MAX(%s) FROM %s", f.Column, f.Table)
	if len(f.Scope) == 0 {
		return query
	}

	conditions := make([]string, len(f.Scope))
	for i, col := range f.Scope {
		conditions[i] = col + " = ?"
	}
	return query + " WHERE " + strings.Join(conditions, " AND ")
}
