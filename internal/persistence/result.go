package persistence

import (
	"context"
	"errors"
)

// ErrNotConfigured is reported by a store that has no connection settings.
var ErrNotConfigured = errors.New("storage not configured")

// Row is a materialized result row keyed by column name.
type Row map[string]any

// Result is the outcome of one store call. Exactly one of Err or the
// value fields is meaningful: when Err is non-nil the call failed and Rows
// and RowsAffected must be ignored.
type Result struct {
	Rows         []Row
	RowsAffected int64
	Err          error
}

// Failed reports whether the call did not complete.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Failure builds a failed result.
func Failure(err error) Result {
	return Result{Err: err}
}

// Store executes single statements against a relational backend. Calls never
// panic and never return a bare error; failures travel inside the Result.
type Store interface {
	Query(ctx context.Context, query string, args ...any) Result
	Exec(ctx context.Context, statement string, args ...any) Result
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneRows copies every row in rows. A nil input yields an empty slice.
func CloneRows(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Clone())
	}
	return out
}
