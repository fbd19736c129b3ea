package sqlite

import (
	"context"
	"database/sql"

	"github.com/corethink/backend/internal/store"
)

// txStore exposes the same repositories as Store but scoped to a single
// transaction. Nested transactions are not supported.
type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore { return &txStore{tx: tx} }

func (t *txStore) Users() store.Users       { return &usersRepo{db: t.tx} }
func (t *txStore) Projects() store.Projects { return &projectsRepo{db: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Close() error { return t.tx.Rollback() }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, store.ErrNestedTx
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Already inside a transaction; run against it directly.
	return fn(t)
}

func (t *txStore) ApplyMigrations() error { return store.ErrNestedTx }
