// Package dbx holds the small database plumbing the repositories share.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX names the query methods repositories are allowed to use. *sql.DB and
// *sql.Tx both satisfy it, so a repository works the same standalone or
// inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx wraps fn in a transaction: commit when fn returns nil, rollback
// otherwise. A panic inside fn rolls back before propagating.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	return fn(ctx, tx)
}
