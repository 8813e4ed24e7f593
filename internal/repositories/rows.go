package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
)

// queryer is satisfied by *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// querySeq returns a lazy sequence over the rows of query.
// The query runs each time the sequence is ranged over, so it can be restarted.
// Iteration stops at the first error, which is yielded with a zero value.
func querySeq[T any](ctx context.Context, q queryer, query string, args []any, scan func(*sql.Rows) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			yield(zero, fmt.Errorf("failed to query rows: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			value, err := scan(rows)
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(value, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(zero, fmt.Errorf("error iterating rows: %w", err))
		}
	}
}

// collect drains a sequence into a slice, stopping at the first error
func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var values []T
	for value, err := range seq {
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}
