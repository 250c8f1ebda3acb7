package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

const restaurantColumns = `id, name, description, address, city, cuisine_type, price_range,
	contact_phone, contact_email, contact_website, latitude, longitude,
	is_active, created_by, created_at, updated_at`

type RestaurantRepository struct {
	session *database.Session
}

func NewRestaurantRepository(session *database.Session) *RestaurantRepository {
	return &RestaurantRepository{session: session}
}

func (r *RestaurantRepository) Create(ctx context.Context, rest model.Restaurant, commit bool) error {
	lat, lng := locationArgs(rest.Location)
	_, err := r.session.ExecContext(ctx,
		`INSERT INTO restaurants (`+restaurantColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rest.ID, rest.Name, rest.Description, rest.Address, rest.City, rest.CuisineType, rest.PriceRange,
		rest.Contact.Phone, rest.Contact.Email, rest.Contact.Website, lat, lng,
		rest.IsActive, rest.CreatedBy, r.session.Timestamp(rest.CreatedAt), r.session.Timestamp(rest.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create restaurant: %w", err)
	}
	return finish(r.session, commit)
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (model.Restaurant, error) {
	if !validID(id) {
		return model.Restaurant{}, model.ErrRestaurantNotFound
	}

	row := r.session.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = ?`, id)
	rest, err := scanRestaurant(row)
	if isNoRows(err) {
		return model.Restaurant{}, model.ErrRestaurantNotFound
	}
	if err != nil {
		return model.Restaurant{}, fmt.Errorf("find restaurant by id: %w", err)
	}
	return rest, nil
}

func (r *RestaurantRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	var exists bool
	err := r.session.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check restaurant exists: %w", err)
	}
	return exists, nil
}

func (r *RestaurantRepository) List(ctx context.Context, filter model.RestaurantFilter) ([]model.Restaurant, int, error) {
	page := filter.Page.Normalize()

	where := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if city := strings.TrimSpace(filter.City); city != "" {
		where = append(where, "lower(city) = lower(?)")
		args = append(args, city)
	}
	if cuisine := strings.TrimSpace(filter.CuisineType); cuisine != "" {
		where = append(where, "lower(cuisine_type) = lower(?)")
		args = append(args, cuisine)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		where = append(where, "lower(name) LIKE lower(?)")
		args = append(args, "%"+name+"%")
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	total, err := count(ctx, r.session, `SELECT COUNT(*) FROM restaurants`+whereClause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count restaurants: %w", err)
	}

	args = append(args, page.Limit, page.Offset())
	rows, err := r.session.QueryContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants`+whereClause+` ORDER BY name, id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	items := make([]model.Restaurant, 0)
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan restaurant: %w", err)
		}
		items = append(items, rest)
	}
	return items, total, rows.Err()
}

func (r *RestaurantRepository) Update(ctx context.Context, rest model.Restaurant, commit bool) error {
	lat, lng := locationArgs(rest.Location)
	result, err := r.session.ExecContext(ctx,
		`UPDATE restaurants
		 SET name = ?, description = ?, address = ?, city = ?, cuisine_type = ?, price_range = ?,
		     contact_phone = ?, contact_email = ?, contact_website = ?, latitude = ?, longitude = ?,
		     is_active = ?, updated_at = ?
		 WHERE id = ?`,
		rest.Name, rest.Description, rest.Address, rest.City, rest.CuisineType, rest.PriceRange,
		rest.Contact.Phone, rest.Contact.Email, rest.Contact.Website, lat, lng,
		rest.IsActive, r.session.Timestamp(rest.UpdatedAt), rest.ID)
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrRestaurantNotFound
	}
	return finish(r.session, commit)
}

// Delete removes the restaurant row. It reports false when no row matched.
func (r *RestaurantRepository) Delete(ctx context.Context, id string, deletedBy *string, commit bool) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := r.session.ExecContext(ctx, `DELETE FROM restaurants WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete restaurant: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	slog.Debug("restaurant delete staged", "restaurant_id", id, "deleted_by", deref(deletedBy), "commit", commit)
	return true, finish(r.session, commit)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (model.Restaurant, error) {
	var rest model.Restaurant
	var lat, lng sql.NullFloat64

	err := row.Scan(
		&rest.ID, &rest.Name, &rest.Description, &rest.Address, &rest.City, &rest.CuisineType, &rest.PriceRange,
		&rest.Contact.Phone, &rest.Contact.Email, &rest.Contact.Website, &lat, &lng,
		&rest.IsActive, &rest.CreatedBy,
		database.TimeScanner(&rest.CreatedAt), database.TimeScanner(&rest.UpdatedAt),
	)
	if err != nil {
		return model.Restaurant{}, err
	}

	if lat.Valid && lng.Valid {
		rest.Location = &model.Location{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	return rest, nil
}

func locationArgs(loc *model.Location) (any, any) {
	if loc == nil {
		return nil, nil
	}
	return loc.Latitude, loc.Longitude
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
