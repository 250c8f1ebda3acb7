package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

type OwnerRepository struct {
	session *database.Session
}

func NewOwnerRepository(session *database.Session) *OwnerRepository {
	return &OwnerRepository{session: session}
}

func (r *OwnerRepository) Assign(ctx context.Context, restaurantID, userID string, commit bool) error {
	if !validID(restaurantID) || !validID(userID) {
		return fmt.Errorf("%w: malformed owner assignment ids", model.ErrInvalidInput)
	}

	_, err := r.session.ExecContext(ctx,
		`INSERT INTO restaurant_owners (restaurant_id, user_id, created_at) VALUES (?, ?, ?)`,
		restaurantID, userID, r.session.Timestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("assign owner: %w", err)
	}
	return finish(r.session, commit)
}

func (r *OwnerRepository) Remove(ctx context.Context, restaurantID, userID string, commit bool) error {
	if !validID(restaurantID) || !validID(userID) {
		return model.ErrOwnerNotFound
	}

	result, err := r.session.ExecContext(ctx,
		`DELETE FROM restaurant_owners WHERE restaurant_id = ? AND user_id = ?`, restaurantID, userID)
	if err != nil {
		return fmt.Errorf("remove owner: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrOwnerNotFound
	}
	return finish(r.session, commit)
}

func (r *OwnerRepository) IsOwner(ctx context.Context, restaurantID, userID string) (bool, error) {
	if !validID(restaurantID) || !validID(userID) {
		return false, nil
	}

	var exists bool
	err := r.session.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM restaurant_owners WHERE restaurant_id = ? AND user_id = ?)`,
		restaurantID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check owner: %w", err)
	}
	return exists, nil
}

func (r *OwnerRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.RestaurantOwner, error) {
	owners := make([]model.RestaurantOwner, 0)
	if !validID(restaurantID) {
		return owners, nil
	}

	rows, err := r.session.QueryContext(ctx,
		`SELECT o.restaurant_id, o.user_id, u.email, u.full_name, o.created_at
		 FROM restaurant_owners o
		 JOIN users u ON u.id = o.user_id
		 WHERE o.restaurant_id = ?
		 ORDER BY u.email`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o model.RestaurantOwner
		if err := rows.Scan(&o.RestaurantID, &o.UserID, &o.Email, &o.FullName, database.TimeScanner(&o.CreatedAt)); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}

// ListRestaurants returns the restaurants owned by a user.
func (r *OwnerRepository) ListRestaurants(ctx context.Context, userID string) ([]model.Restaurant, error) {
	items := make([]model.Restaurant, 0)
	if !validID(userID) {
		return items, nil
	}

	rows, err := r.session.QueryContext(ctx,
		`SELECT `+prefixed("r.", restaurantColumns)+`
		 FROM restaurants r
		 JOIN restaurant_owners o ON o.restaurant_id = r.id
		 WHERE o.user_id = ?
		 ORDER BY r.name, r.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned restaurants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		items = append(items, rest)
	}
	return items, rows.Err()
}
