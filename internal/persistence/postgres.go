package persistence

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/config"
)

// Postgres is a Store that opens one connection per call and closes it
// before returning. No pool is kept between calls.
type Postgres struct {
	connConfig *pgx.ConnConfig
	timeout    time.Duration
	logger     *zap.Logger
}

// NewPostgres parses connection settings. An empty DSN yields a store whose
// every call fails with ErrNotConfigured.
func NewPostgres(cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	p := &Postgres{timeout: cfg.QueryTimeout(), logger: logger}
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; all reads will be served from fallback data")
		return p, nil
	}

	connConfig, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.RequireTLS && connConfig.TLSConfig == nil {
		connConfig.TLSConfig = &tls.Config{
			ServerName: connConfig.Host,
			MinVersion: tls.VersionTLS12,
		}
	}
	p.connConfig = connConfig
	return p, nil
}

// Configured reports whether connection settings are present.
func (p *Postgres) Configured() bool {
	return p != nil && p.connConfig != nil
}

// Query runs a statement that returns rows.
func (p *Postgres) Query(ctx context.Context, query string, args ...any) Result {
	var rows []Row
	err := p.withConn(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		pgRows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		rows, err = collectRows(pgRows)
		return err
	})
	if err != nil {
		return Failure(err)
	}
	return Result{Rows: rows, RowsAffected: int64(len(rows))}
}

// Exec runs a statement and reports the affected row count.
func (p *Postgres) Exec(ctx context.Context, statement string, args ...any) Result {
	var affected int64
	err := p.withConn(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, statement, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return Failure(err)
	}
	return Result{RowsAffected: affected}
}

// Ping opens and closes a connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.withConn(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		return conn.Ping(ctx)
	})
}

func (p *Postgres) withConn(ctx context.Context, fn func(context.Context, *pgx.Conn) error) error {
	if !p.Configured() {
		return ErrNotConfigured
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	conn, err := pgx.ConnectConfig(ctx, p.connConfig)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if cerr := conn.Close(closeCtx); cerr != nil && !errors.Is(cerr, context.Canceled) {
			p.logger.Debug("postgres close failed", zap.Error(cerr))
		}
	}()

	return fn(ctx, conn)
}
