package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/observability"
	"github.com/spec-kit/field-service/internal/persistence"
)

// Resilient runs single reads and writes against a Store and guarantees the
// caller a structurally valid answer. Any storage failure is logged, counted
// and replaced by the caller's fallback value; it is never returned as an
// error. A successful empty result is not a failure. There are no retries.
type Resilient struct {
	store   persistence.Store
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewResilient wraps store. A nil store behaves as permanently unreachable.
func NewResilient(store persistence.Store, logger *zap.Logger, metrics *observability.Metrics) *Resilient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resilient{store: store, logger: logger, metrics: metrics}
}

// ReadOne returns the first row of the result, nil when the query matched
// nothing, or a copy of fallback when the store failed.
func (r *Resilient) ReadOne(ctx context.Context, op string, fallback persistence.Row, query string, args ...any) persistence.Row {
	res := r.call(ctx, func(s persistence.Store) persistence.Result { return s.Query(ctx, query, args...) })
	if res.Failed() {
		r.degrade(op, res.Err)
		return fallback.Clone()
	}
	if len(res.Rows) == 0 {
		return nil
	}
	return res.Rows[0]
}

// ReadMany returns every row of the result, an empty slice when nothing
// matched, or a copy of fallback when the store failed.
func (r *Resilient) ReadMany(ctx context.Context, op string, fallback []persistence.Row, query string, args ...any) []persistence.Row {
	res := r.call(ctx, func(s persistence.Store) persistence.Result { return s.Query(ctx, query, args...) })
	if res.Failed() {
		r.degrade(op, res.Err)
		return persistence.CloneRows(fallback)
	}
	if res.Rows == nil {
		return []persistence.Row{}
	}
	return res.Rows
}

// Write executes statement. ok is false when the store failed; callers must
// check it because no error is returned.
func (r *Resilient) Write(ctx context.Context, op string, statement string, args ...any) (affected int64, ok bool) {
	res := r.call(ctx, func(s persistence.Store) persistence.Result { return s.Exec(ctx, statement, args...) })
	if res.Failed() {
		r.logger.Warn("storage write failed", zap.String("operation", op), zap.Error(res.Err))
		r.metrics.RecordFallback(op)
		return 0, false
	}
	return res.RowsAffected, true
}

func (r *Resilient) call(ctx context.Context, fn func(persistence.Store) persistence.Result) (res persistence.Result) {
	if r.store == nil {
		return persistence.Failure(persistence.ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return persistence.Failure(err)
	}
	defer func() {
		if p := recover(); p != nil {
			res = persistence.Failure(fmt.Errorf("store panic: %v", p))
		}
	}()
	return fn(r.store)
}

func (r *Resilient) degrade(op string, err error) {
	r.logger.Warn("storage unavailable; serving fallback data", zap.String("operation", op), zap.Error(err))
	r.metrics.RecordFallback(op)
}

// Attempt applies the same discipline to stores that are not relational:
// fn's error is logged and fallback is returned in its place.
func Attempt[T any](ctx context.Context, r *Resilient, op string, fallback T, fn func(context.Context) (T, error)) T {
	value, err := func() (value T, err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v", p)
			}
		}()
		return fn(ctx)
	}()
	if err != nil {
		r.degrade(op, err)
		return fallback
	}
	return value
}
