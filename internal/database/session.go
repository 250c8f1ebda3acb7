package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

// Session is a unit of database work shared by every repository taking part
// in one operation. Reads run on the open transaction when there is one;
// the first write begins a transaction, so writes stay staged until Commit.
// Close discards anything that was never committed.
type Session struct {
	db *DB

	mu sync.Mutex
	tx *sql.Tx
}

func (s *Session) Dialect() Dialect {
	return s.db.Dialect
}

// Timestamp converts t into the value the engine stores for timestamps.
func (s *Session) Timestamp(t time.Time) any {
	return s.db.Dialect.Timestamp(t)
}

func (s *Session) InTransaction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx != nil
}

// Begin starts the transaction eagerly. Writes call it implicitly.
func (s *Session) Begin(ctx context.Context) error {
	_, err := s.begin(ctx)
	return err
}

func (s *Session) begin(ctx context.Context) (*sql.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx != nil {
		return s.tx, nil
	}

	tx, err := s.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	s.tx = tx
	return tx, nil
}

func (s *Session) current() *sql.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx
}

// ExecContext stages a write inside the session transaction.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx, s.db.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, s.classify(err)
	}
	return result, nil
}

func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = s.db.Dialect.Rebind(query)
	if tx := s.current(); tx != nil {
		return tx.QueryContext(ctx, query, args...)
	}
	return s.db.SQL.QueryContext(ctx, query, args...)
}

func (s *Session) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	query = s.db.Dialect.Rebind(query)
	if tx := s.current(); tx != nil {
		return tx.QueryRowContext(ctx, query, args...)
	}
	return s.db.SQL.QueryRowContext(ctx, query, args...)
}

// Commit finalises every staged write. Without a transaction it is a no-op.
func (s *Session) Commit() error {
	s.mu.Lock()
	tx := s.tx
	s.tx = nil
	s.mu.Unlock()

	if tx == nil {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", s.classify(err))
	}
	return nil
}

// Rollback discards every staged write.
func (s *Session) Rollback() error {
	s.mu.Lock()
	tx := s.tx
	s.tx = nil
	s.mu.Unlock()

	if tx == nil {
		return nil
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

func (s *Session) Close() error {
	return s.Rollback()
}

func (s *Session) classify(err error) error {
	if s.db.Dialect.IsConstraintViolation(err) {
		return fmt.Errorf("%w: %w", model.ErrConstraintViolation, err)
	}
	return err
}
