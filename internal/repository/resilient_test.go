package repository

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/observability"
	"github.com/spec-kit/field-service/internal/persistence"
	"github.com/spec-kit/field-service/internal/persistence/persistencetest"
)

type panickingStore struct{}

func (panickingStore) Query(context.Context, string, ...any) persistence.Result { panic("boom") }
func (panickingStore) Exec(context.Context, string, ...any) persistence.Result  { panic("boom") }

func TestReadOneReturnsFirstRow(t *testing.T) {
	db := NewResilient(persistencetest.Rows(persistence.Row{"id": int64(7)}, persistence.Row{"id": int64(8)}), zap.NewNop(), nil)
	row := db.ReadOne(context.Background(), "test", persistence.Row{"id": int64(1)}, "SELECT 1")
	if rowInt64(row, "id") != 7 {
		t.Fatalf("expected first row, got %v", row)
	}
}

func TestReadOneEmptyIsNotFallback(t *testing.T) {
	db := NewResilient(persistencetest.Rows(), zap.NewNop(), nil)
	if row := db.ReadOne(context.Background(), "test", persistence.Row{"id": int64(1)}, "SELECT 1"); row != nil {
		t.Fatalf("expected nil for empty result, got %v", row)
	}
}

func TestReadOneFailureReturnsFallbackCopy(t *testing.T) {
	fallbackRow := persistence.Row{"id": int64(1)}
	db := NewResilient(persistencetest.Down(), zap.NewNop(), nil)
	row := db.ReadOne(context.Background(), "test", fallbackRow, "SELECT 1")
	if rowInt64(row, "id") != 1 {
		t.Fatalf("expected fallback row, got %v", row)
	}
	row["id"] = int64(99)
	if fallbackRow["id"] != int64(1) {
		t.Fatal("fallback row was mutated through the returned copy")
	}
}

func TestReadManyEmptyIsNotFallback(t *testing.T) {
	db := NewResilient(&persistencetest.Store{OnQuery: func(string, []any) persistence.Result {
		return persistence.Result{}
	}}, zap.NewNop(), nil)
	rows := db.ReadMany(context.Background(), "test", []persistence.Row{{"id": int64(1)}}, "SELECT 1")
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", rows)
	}
}

func TestReadManyFailureCountsFallback(t *testing.T) {
	metrics := observability.NewMetrics()
	db := NewResilient(persistencetest.Down(), zap.NewNop(), metrics)
	rows := db.ReadMany(context.Background(), "tickets.list", []persistence.Row{{"id": int64(1)}, {"id": int64(2)}}, "SELECT 1")
	if len(rows) != 2 {
		t.Fatalf("expected fallback rows, got %d", len(rows))
	}
	count, err := testutil.GatherAndCount(metrics.Gatherer(), "field_service_storage_fallbacks_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one fallback series, got %d", count)
	}
}

func TestNilStoreAlwaysFails(t *testing.T) {
	db := NewResilient(nil, nil, nil)
	if row := db.ReadOne(context.Background(), "test", persistence.Row{"id": int64(3)}, "SELECT 1"); rowInt64(row, "id") != 3 {
		t.Fatalf("expected fallback, got %v", row)
	}
	if _, ok := db.Write(context.Background(), "test", "UPDATE x"); ok {
		t.Fatal("write against nil store reported success")
	}
}

func TestPanickingStoreDegrades(t *testing.T) {
	db := NewResilient(panickingStore{}, zap.NewNop(), nil)
	rows := db.ReadMany(context.Background(), "test", []persistence.Row{{"id": int64(1)}}, "SELECT 1")
	if len(rows) != 1 {
		t.Fatalf("expected fallback after panic, got %v", rows)
	}
	if _, ok := db.Write(context.Background(), "test", "UPDATE x"); ok {
		t.Fatal("expected write failure after panic")
	}
}

func TestCancelledContextDegrades(t *testing.T) {
	store := persistencetest.Rows(persistence.Row{"id": int64(5)})
	db := NewResilient(store, zap.NewNop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	row := db.ReadOne(ctx, "test", persistence.Row{"id": int64(1)}, "SELECT 1")
	if rowInt64(row, "id") != 1 {
		t.Fatalf("expected fallback for cancelled context, got %v", row)
	}
	if len(store.Queries()) != 0 {
		t.Fatal("store should not be called with a cancelled context")
	}
}

func TestWriteReportsAffectedRows(t *testing.T) {
	db := NewResilient(&persistencetest.Store{OnExec: func(string, []any) persistence.Result {
		return persistence.Result{RowsAffected: 3}
	}}, zap.NewNop(), nil)
	affected, ok := db.Write(context.Background(), "test", "UPDATE x")
	if !ok || affected != 3 {
		t.Fatalf("got (%d, %v), want (3, true)", affected, ok)
	}
}

func TestAttemptReturnsFallbackOnError(t *testing.T) {
	db := NewResilient(nil, zap.NewNop(), nil)
	got := Attempt(context.Background(), db, "test", "fallback", func(context.Context) (string, error) {
		return "", persistencetest.ErrUnreachable
	})
	if got != "fallback" {
		t.Fatalf("got %q", got)
	}
	got = Attempt(context.Background(), db, "test", "fallback", func(context.Context) (string, error) {
		return "live", nil
	})
	if got != "live" {
		t.Fatalf("got %q", got)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	cases := []struct {
		offset, limit int
		want          []int
	}{
		{0, 2, []int{1, 2}},
		{3, 10, []int{4, 5}},
		{5, 2, []int{}},
		{-1, 1, []int{1}},
		{0, 0, []int{}},
		{1, math.MaxInt, []int{2, 3, 4, 5}},
		{math.MaxInt, math.MaxInt, []int{}},
	}
	for _, tc := range cases {
		got := Paginate(items, tc.offset, tc.limit)
		if len(got) != len(tc.want) {
			t.Fatalf("Paginate(%d,%d) = %v, want %v", tc.offset, tc.limit, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("Paginate(%d,%d) = %v, want %v", tc.offset, tc.limit, got, tc.want)
			}
		}
	}
}

func TestRowDecoders(t *testing.T) {
	row := persistence.Row{
		"a": `["Motors","Pumps"]`,
		"b": []any{"x", 1, "y"},
		"c": "2025-01-15T09:00:00",
		"d": nil,
		"e": int32(4),
		"f": "12.5",
	}
	if got := rowStrings(row, "a"); len(got) != 2 || got[1] != "Pumps" {
		t.Errorf("rowStrings json = %v", got)
	}
	if got := rowStrings(row, "b"); len(got) != 2 {
		t.Errorf("rowStrings []any = %v", got)
	}
	if got := rowTime(row, "c"); got.Hour() != 9 {
		t.Errorf("rowTime = %v", got)
	}
	if rowOptionalTime(row, "d") != nil || rowOptionalInt64(row, "d") != nil {
		t.Error("nil column should decode as absent")
	}
	if rowInt64(row, "e") != 4 || rowFloat(row, "f") != 12.5 {
		t.Error("numeric decoding failed")
	}
}
