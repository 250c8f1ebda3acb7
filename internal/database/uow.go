package database

import (
	"context"
	"log/slog"
)

// Transactor is the finalize/discard pair a UnitOfWork coordinates.
// *Session implements it.
type Transactor interface {
	Commit() error
	Rollback() error
}

// UnitOfWork owns the single commit of a multi-step write. It never commits
// on its own: every write path has to reach Commit explicitly.
type UnitOfWork struct {
	session   Transactor
	committed bool
}

func NewUnitOfWork(session Transactor) *UnitOfWork {
	return &UnitOfWork{session: session}
}

// Commit flushes every staged write on the shared session as one transaction.
func (u *UnitOfWork) Commit() error {
	if err := u.session.Commit(); err != nil {
		return err
	}
	u.committed = true
	return nil
}

func (u *UnitOfWork) Rollback() error {
	return u.session.Rollback()
}

func (u *UnitOfWork) Committed() bool {
	return u.committed
}

// Within runs fn as the scope of the unit of work. When fn fails or panics
// before Commit was reached, the staged writes are rolled back and the
// original error (or panic) is passed on unchanged. A clean return without
// Commit leaves the session untouched.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			u.rollbackQuietly()
			panic(recovered)
		}
		if err != nil {
			u.rollbackQuietly()
		}
	}()

	return fn(ctx)
}

func (u *UnitOfWork) rollbackQuietly() {
	if u.committed {
		return
	}
	if err := u.Rollback(); err != nil {
		slog.Error("unit of work rollback failed", "error", err)
	}
}
