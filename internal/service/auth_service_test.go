package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database/databasetest"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/pkg/apierror"
)

func newTestAuth(db SessionFactory) *AuthService {
	auth := NewAuthService(db, "test-secret", 15*time.Minute, time.Hour)
	auth.cost = bcrypt.MinCost
	return auth
}

func TestAuthService_EnsureAdminAndLogin(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuth(databasetest.Open(t))

	require.NoError(t, auth.EnsureAdmin(ctx, "admin@descubreboyaca.co", "admin12345"))
	require.NoError(t, auth.EnsureAdmin(ctx, "other@descubreboyaca.co", "ignored123"), "second call is a no-op")

	pair, err := auth.Login(ctx, "ADMIN@descubreboyaca.co", "admin12345")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, model.RoleAdmin, pair.User.Role)

	claims, err := auth.ValidateToken(pair.AccessToken, tokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, pair.User.ID, claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)

	_, err = auth.ValidateToken(pair.AccessToken, tokenTypeRefresh)
	assert.Error(t, err, "access token is not a refresh token")

	_, err = auth.Login(ctx, "other@descubreboyaca.co", "ignored123")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = auth.Login(ctx, "admin@descubreboyaca.co", "wrong-password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuthService_RegisterRefreshLogout(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuth(databasetest.Open(t))

	user, err := auth.Register(ctx, model.RegisterRequest{Email: "turista@example.co", Password: "boyaca2025", FullName: "Turista"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)

	_, err = auth.Register(ctx, model.RegisterRequest{Email: "TURISTA@example.co", Password: "boyaca2025"})
	assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.HTTPStatus)

	_, err = auth.Register(ctx, model.RegisterRequest{Email: "corto@example.co", Password: "short"})
	assert.Error(t, err)

	pair, err := auth.Login(ctx, "turista@example.co", "boyaca2025")
	require.NoError(t, err)

	rotated, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = auth.Refresh(ctx, pair.RefreshToken)
	assert.Error(t, err, "a rotated refresh token cannot be reused")

	require.NoError(t, auth.Logout(ctx, rotated.RefreshToken))
	_, err = auth.Refresh(ctx, rotated.RefreshToken)
	assert.Error(t, err)

	me, err := auth.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "turista@example.co", me.Email)
}

func TestAuthService_InactiveUserCannotLogin(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t)
	auth := newTestAuth(db)
	users := NewUserService(db, nil)

	user, err := auth.Register(ctx, model.RegisterRequest{Email: "inactivo@example.co", Password: "boyaca2025"})
	require.NoError(t, err)

	inactive := false
	_, err = users.Update(ctx, adminActor, user.ID, model.UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = auth.Login(ctx, "inactivo@example.co", "boyaca2025")
	assert.ErrorIs(t, err, model.ErrUserInactive)
}
