package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

type FavoriteRepository struct {
	session *database.Session
}

func NewFavoriteRepository(session *database.Session) *FavoriteRepository {
	return &FavoriteRepository{session: session}
}

// Add marks a restaurant as favorite. Adding an existing favorite is a no-op.
func (r *FavoriteRepository) Add(ctx context.Context, userID, restaurantID string, commit bool) error {
	if !validID(userID) || !validID(restaurantID) {
		return model.ErrRestaurantNotFound
	}

	exists, err := r.Exists(ctx, userID, restaurantID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = r.session.ExecContext(ctx,
		`INSERT INTO user_favorites (user_id, restaurant_id, created_at) VALUES (?, ?, ?)`,
		userID, restaurantID, r.session.Timestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return finish(r.session, commit)
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, restaurantID string, commit bool) error {
	if !validID(userID) || !validID(restaurantID) {
		return model.ErrFavoriteNotFound
	}

	result, err := r.session.ExecContext(ctx,
		`DELETE FROM user_favorites WHERE user_id = ? AND restaurant_id = ?`, userID, restaurantID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrFavoriteNotFound
	}
	return finish(r.session, commit)
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, restaurantID string) (bool, error) {
	if !validID(userID) || !validID(restaurantID) {
		return false, nil
	}

	var exists bool
	err := r.session.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_favorites WHERE user_id = ? AND restaurant_id = ?)`,
		userID, restaurantID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}

func (r *FavoriteRepository) List(ctx context.Context, userID string, page model.Page) ([]model.Restaurant, int, error) {
	page = page.Normalize()
	items := make([]model.Restaurant, 0)
	if !validID(userID) {
		return items, 0, nil
	}

	total, err := count(ctx, r.session, `SELECT COUNT(*) FROM user_favorites WHERE user_id = ?`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count favorites: %w", err)
	}

	rows, err := r.session.QueryContext(ctx,
		`SELECT `+prefixed("r.", restaurantColumns)+`
		 FROM restaurants r
		 JOIN user_favorites f ON f.restaurant_id = r.id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC, r.id
		 LIMIT ? OFFSET ?`, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan restaurant: %w", err)
		}
		items = append(items, rest)
	}
	return items, total, rows.Err()
}
