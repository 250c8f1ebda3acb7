package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
)

// Repositories groups every repository bound to one session, so that their
// writes share a single commit boundary.
type Repositories struct {
	Session     *database.Session
	Restaurants *RestaurantRepository
	Dishes      *DishRepository
	Users       *UserRepository
	Tokens      *TokenRepository
	Owners      *OwnerRepository
	Favorites   *FavoriteRepository
	Archives    *ArchiveRepository
}

func New(session *database.Session) *Repositories {
	return &Repositories{
		Session:     session,
		Restaurants: NewRestaurantRepository(session),
		Dishes:      NewDishRepository(session),
		Users:       NewUserRepository(session),
		Tokens:      NewTokenRepository(session),
		Owners:      NewOwnerRepository(session),
		Favorites:   NewFavoriteRepository(session),
		Archives:    NewArchiveRepository(session),
	}
}

// validID guards uuid columns: PostgreSQL rejects malformed uuids with a
// syntax error, which should read as "not found" instead.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func finish(session *database.Session, commit bool) error {
	if !commit {
		return nil
	}
	return session.Commit()
}

func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func count(ctx context.Context, session *database.Session, query string, args ...any) (int, error) {
	var total int
	if err := session.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// prefixed qualifies a comma separated column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
