package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

// TokenRepository persists refresh tokens. Expiry is compared in Go so the
// same query works on every engine.
type TokenRepository struct {
	session *database.Session
}

func NewTokenRepository(session *database.Session) *TokenRepository {
	return &TokenRepository{session: session}
}

func (r *TokenRepository) Store(ctx context.Context, token string, userID string, expiresAt time.Time, commit bool) error {
	_, err := r.session.ExecContext(ctx,
		`INSERT INTO refresh_tokens (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token, userID, r.session.Timestamp(time.Now()), r.session.Timestamp(expiresAt))
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return finish(r.session, commit)
}

// Validate returns the owner of a live refresh token.
func (r *TokenRepository) Validate(ctx context.Context, token string) (string, error) {
	var userID string
	var expiresAt time.Time
	err := r.session.QueryRowContext(ctx,
		`SELECT user_id, expires_at FROM refresh_tokens WHERE token = ?`, token).
		Scan(&userID, database.TimeScanner(&expiresAt))

	if isNoRows(err) {
		return "", model.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("validate refresh token: %w", err)
	}
	if !expiresAt.After(time.Now()) {
		return "", model.ErrTokenExpired
	}
	return userID, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, token string, commit bool) error {
	_, err := r.session.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return finish(r.session, commit)
}

func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID string, commit bool) error {
	_, err := r.session.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return finish(r.session, commit)
}

func (r *TokenRepository) CleanExpired(ctx context.Context, commit bool) (int64, error) {
	result, err := r.session.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= ?`, r.session.Timestamp(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("clean expired tokens: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return 0, err
	}
	return n, finish(r.session, commit)
}
