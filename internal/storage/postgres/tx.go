package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txKey struct{}

// txOptions tunes transactions opened by withTx.
type txOptions struct {
	// lockTimeout bounds how long a statement waits for a row lock.
	// Zero keeps the server default.
	lockTimeout time.Duration
}

func withTx(ctx context.Context, pool *pgxpool.Pool, opts txOptions, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// Rollback must run even when ctx is already cancelled, otherwise the
	// row lock is held until the pool notices the dead connection.
	rollback := func() {
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}

	if opts.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, lockTimeoutStatement(opts.lockTimeout)); err != nil {
			rollback()
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		rollback()
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		rollback()
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// lockTimeoutStatement rounds d up to whole milliseconds; '0ms' would
// disable the timeout.
func lockTimeoutStatement(d time.Duration) string {
	ms := (d + time.Millisecond - 1) / time.Millisecond
	return fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", int64(ms))
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

// querier routes statements through the context transaction when present.
type querier struct {
	pool *pgxpool.Pool
}

func (q querier) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return q.pool.Exec(ctx, sql, args...)
}

func (q querier) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return q.pool.QueryRow(ctx, sql, args...)
}

func (q querier) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return q.pool.Query(ctx, sql, args...)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

func isCheckViolation(err error) bool {
	return pgCode(err) == "23514"
}

// isNumericOutOfRange reports a value too large for its NUMERIC column.
func isNumericOutOfRange(err error) bool {
	return pgCode(err) == "22003"
}

// isRetryableConflict reports serialization failures and deadlocks, both of
// which leave the row untouched and are safe to retry.
func isRetryableConflict(err error) bool {
	switch pgCode(err) {
	case "40001", "40P01":
		return true
	}
	return false
}

func isLockTimeout(err error) bool {
	return pgCode(err) == "55P03"
}
