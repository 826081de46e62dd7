package sqlite

import (
	"context"
	"database/sql"
)

// Querier is the common interface implemented by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// unexported context key type for storing tx
type txCtxKey struct{}

// withTx puts a transaction into the context.
func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// txFromCtx returns the transaction from context, if present.
func txFromCtx(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txCtxKey{}).(*sql.Tx)
	return tx, ok
}

// Querier returns the transaction from context if present, otherwise the
// database itself. Callers outside this package use it to run their own
// statements inside a TxManager transaction.
func (s *Store) Querier(ctx context.Context) Querier {
	if tx, ok := txFromCtx(ctx); ok {
		return tx
	}
	return s.db
}

// querier is the internal alias used throughout this package.
func (s *Store) querier(ctx context.Context) Querier {
	return s.Querier(ctx)
}
