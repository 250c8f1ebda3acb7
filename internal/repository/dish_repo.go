package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

const dishColumns = `id, restaurant_id, name, description, price, category, is_available, image_url, created_at, updated_at`

type DishRepository struct {
	session *database.Session
}

func NewDishRepository(session *database.Session) *DishRepository {
	return &DishRepository{session: session}
}

func (r *DishRepository) Create(ctx context.Context, dish model.Dish, commit bool) error {
	_, err := r.session.ExecContext(ctx,
		`INSERT INTO dishes (`+dishColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dish.ID, dish.RestaurantID, dish.Name, dish.Description, dish.Price, dish.Category,
		dish.IsAvailable, dish.ImageURL, r.session.Timestamp(dish.CreatedAt), r.session.Timestamp(dish.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create dish: %w", err)
	}
	return finish(r.session, commit)
}

func (r *DishRepository) GetByID(ctx context.Context, id string) (model.Dish, error) {
	if !validID(id) {
		return model.Dish{}, model.ErrDishNotFound
	}

	dish, err := scanDish(r.session.QueryRowContext(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id = ?`, id))
	if isNoRows(err) {
		return model.Dish{}, model.ErrDishNotFound
	}
	if err != nil {
		return model.Dish{}, fmt.Errorf("find dish by id: %w", err)
	}
	return dish, nil
}

// ListByRestaurant returns the menu of a restaurant ordered by category and name.
func (r *DishRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Dish, error) {
	items := make([]model.Dish, 0)
	if !validID(restaurantID) {
		return items, nil
	}

	rows, err := r.session.QueryContext(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE restaurant_id = ? ORDER BY category, name, id`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		items = append(items, dish)
	}
	return items, rows.Err()
}

func (r *DishRepository) CountByRestaurant(ctx context.Context, restaurantID string) (int, error) {
	if !validID(restaurantID) {
		return 0, nil
	}
	total, err := count(ctx, r.session, `SELECT COUNT(*) FROM dishes WHERE restaurant_id = ?`, restaurantID)
	if err != nil {
		return 0, fmt.Errorf("count dishes: %w", err)
	}
	return total, nil
}

func (r *DishRepository) Update(ctx context.Context, dish model.Dish, commit bool) error {
	result, err := r.session.ExecContext(ctx,
		`UPDATE dishes
		 SET name = ?, description = ?, price = ?, category = ?, is_available = ?, image_url = ?, updated_at = ?
		 WHERE id = ?`,
		dish.Name, dish.Description, dish.Price, dish.Category, dish.IsAvailable, dish.ImageURL,
		r.session.Timestamp(dish.UpdatedAt), dish.ID)
	if err != nil {
		return fmt.Errorf("update dish: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrDishNotFound
	}
	return finish(r.session, commit)
}

// Delete removes the dish row. It reports false when no row matched.
func (r *DishRepository) Delete(ctx context.Context, id string, deletedBy *string, commit bool) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := r.session.ExecContext(ctx, `DELETE FROM dishes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete dish: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	slog.Debug("dish delete staged", "dish_id", id, "deleted_by", deref(deletedBy), "commit", commit)
	return true, finish(r.session, commit)
}

func scanDish(row rowScanner) (model.Dish, error) {
	var dish model.Dish
	err := row.Scan(
		&dish.ID, &dish.RestaurantID, &dish.Name, &dish.Description, &dish.Price, &dish.Category,
		&dish.IsAvailable, &dish.ImageURL,
		database.TimeScanner(&dish.CreatedAt), database.TimeScanner(&dish.UpdatedAt),
	)
	return dish, err
}
