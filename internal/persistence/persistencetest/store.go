// Package persistencetest provides Store doubles for tests.
package persistencetest

import (
	"context"
	"errors"
	"sync"

	"github.com/spec-kit/field-service/internal/persistence"
)

// ErrUnreachable is what Down reports for every call.
var ErrUnreachable = errors.New("connection refused")

// Call records one statement sent to a Store.
type Call struct {
	Statement string
	Args      []any
}

// Store answers with OnQuery and OnExec and records every call. A nil hook
// answers with an empty successful result.
type Store struct {
	OnQuery func(query string, args []any) persistence.Result
	OnExec  func(statement string, args []any) persistence.Result

	mu      sync.Mutex
	queries []Call
	execs   []Call
}

// Down returns a Store on which every call fails.
func Down() *Store {
	fail := func(string, []any) persistence.Result { return persistence.Failure(ErrUnreachable) }
	return &Store{OnQuery: fail, OnExec: fail}
}

// Rows returns a Store that answers every query with rows.
func Rows(rows ...persistence.Row) *Store {
	return &Store{OnQuery: func(string, []any) persistence.Result {
		return persistence.Result{Rows: persistence.CloneRows(rows)}
	}}
}

func (s *Store) Query(_ context.Context, query string, args ...any) persistence.Result {
	s.mu.Lock()
	s.queries = append(s.queries, Call{Statement: query, Args: args})
	s.mu.Unlock()
	if s.OnQuery == nil {
		return persistence.Result{Rows: []persistence.Row{}}
	}
	return s.OnQuery(query, args)
}

func (s *Store) Exec(_ context.Context, statement string, args ...any) persistence.Result {
	s.mu.Lock()
	s.execs = append(s.execs, Call{Statement: statement, Args: args})
	s.mu.Unlock()
	if s.OnExec == nil {
		return persistence.Result{RowsAffected: 1}
	}
	return s.OnExec(statement, args)
}

// Queries returns the queries seen so far.
func (s *Store) Queries() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.queries...)
}

// Execs returns the statements executed so far.
func (s *Store) Execs() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.execs...)
}
