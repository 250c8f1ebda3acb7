package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

const userColumns = `id, email, full_name, password_hash, role, is_active, created_at, updated_at`

type UserRepository struct {
	session *database.Session
}

func NewUserRepository(session *database.Session) *UserRepository {
	return &UserRepository{session: session}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	if !validID(id) {
		return model.User{}, model.ErrUserNotFound
	}

	u, err := scanUser(r.session.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if isNoRows(err) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.session.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower(?)`, strings.TrimSpace(email)))
	if isNoRows(err) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.session.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower(?))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User, commit bool) error {
	_, err := r.session.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.Role, u.IsActive,
		r.session.Timestamp(u.CreatedAt), r.session.Timestamp(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return finish(r.session, commit)
}

func (r *UserRepository) Update(ctx context.Context, u model.User, commit bool) error {
	result, err := r.session.ExecContext(ctx,
		`UPDATE users SET full_name = ?, role = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		u.FullName, u.Role, u.IsActive, r.session.Timestamp(u.UpdatedAt), u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrUserNotFound
	}
	return finish(r.session, commit)
}

// Delete removes the user row together with its tokens, ownerships and
// favorites. It reports false when no row matched.
func (r *UserRepository) Delete(ctx context.Context, id string, deletedBy *string, commit bool) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := r.session.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	slog.Debug("user delete staged", "user_id", id, "deleted_by", deref(deletedBy), "commit", commit)
	return true, finish(r.session, commit)
}

func (r *UserRepository) List(ctx context.Context, page model.Page) ([]model.User, int, error) {
	page = page.Normalize()

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.session.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY email LIMIT ? OFFSET ?`, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	total, err := count(ctx, r.session, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive,
		database.TimeScanner(&u.CreatedAt), database.TimeScanner(&u.UpdatedAt))
	return u, err
}
