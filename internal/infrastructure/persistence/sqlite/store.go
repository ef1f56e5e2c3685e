package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/rezkam/aftermarket/internal/application/automation"
	"github.com/rezkam/aftermarket/internal/application/jobs"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements the job repositories on SQLite.
type Store struct {
	db   *sql.DB
	conn querier
}

var (
	_ jobs.Repository       = (*Store)(nil)
	_ automation.Repository = (*Store)(nil)
)

// NewStore wraps an already migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, conn: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// inTx runs fn against a transaction-scoped store.
// The store holds a single connection, so fn must not use s directly.
func (s *Store) inTx(ctx context.Context, operation string, fn func(tx *Store) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.ErrorContext(ctx, "rollback failed",
					"operation", operation,
					"original_error", err,
					"rollback_error", rbErr)
			}
			return
		}
		err = tx.Commit()
	}()

	return fn(&Store{db: s.db, conn: tx})
}
