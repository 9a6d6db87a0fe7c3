package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store owns the database handle and scopes transactions. Core operations
// that must be atomic (a ledger write plus the status recompute it
// triggers) run inside WithTx; everything the callback writes commits or
// rolls back as one unit.
type Store interface {
	// DB exposes the pooled handle for single-statement reads.
	DB() *sqlx.DB

	// WithTx runs fn inside a transaction, rolling back on error or panic.
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type sqlStore struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) DB() *sqlx.DB {
	return s.db
}

func (s *sqlStore) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
