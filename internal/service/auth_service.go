package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/repository"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/pkg/apierror"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	minPasswordLen   = 8
)

type AuthService struct {
	db         SessionFactory
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	cost       int
}

func NewAuthService(db SessionFactory, jwtSecret string, accessTTL time.Duration, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		db:         db,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		cost:       12,
	}
}

// EnsureAdmin creates the bootstrap administrator when there are no users yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email string, password string) error {
	repos, done := open(s.db)
	defer done()

	total, err := repos.Users.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("admin email and password are required to bootstrap an empty database")
	}

	user, err := s.newUser(strings.TrimSpace(email), password, "Administrator", model.RoleAdmin)
	if err != nil {
		return err
	}
	if err := repos.Users.Create(ctx, user, true); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenPair, error) {
	repos, done := open(s.db)
	defer done()

	user, err := repos.Users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}
	if !user.IsActive {
		return model.TokenPair{}, model.ErrUserInactive
	}

	pair, err := s.issueTokenPair(ctx, repos, user)
	if err != nil {
		return model.TokenPair{}, err
	}
	if err := repos.Session.Commit(); err != nil {
		return model.TokenPair{}, err
	}
	return pair, nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthUser, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return model.AuthUser{}, apierror.BadRequest("a valid email is required", email)
	}
	if len(req.Password) < minPasswordLen {
		return model.AuthUser{}, apierror.BadRequest(fmt.Sprintf("password must have at least %d characters", minPasswordLen), "")
	}

	repos, done := open(s.db)
	defer done()

	exists, err := repos.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AuthUser{}, err
	}
	if exists {
		return model.AuthUser{}, apierror.Wrap(model.ErrUserAlreadyExists, "ALREADY_EXISTS", "email already registered", http.StatusConflict)
	}

	user, err := s.newUser(email, req.Password, strings.TrimSpace(req.FullName), model.RoleUser)
	if err != nil {
		return model.AuthUser{}, err
	}
	if err := repos.Users.Create(ctx, user, true); err != nil {
		return model.AuthUser{}, err
	}
	return user.AuthUser(), nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued in the same transaction.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.ValidateToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return model.TokenPair{}, err
	}

	repos, done := open(s.db)
	defer done()

	ownerID, err := repos.Tokens.Validate(ctx, refreshToken)
	if err != nil || ownerID != claims.UserID {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "refresh token is invalid", "", http.StatusUnauthorized)
	}

	user, err := repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "user not found", "", http.StatusUnauthorized)
	}
	if !user.IsActive {
		return model.TokenPair{}, model.ErrUserInactive
	}

	if err := repos.Tokens.Revoke(ctx, refreshToken, false); err != nil {
		return model.TokenPair{}, err
	}
	pair, err := s.issueTokenPair(ctx, repos, user)
	if err != nil {
		return model.TokenPair{}, err
	}
	if err := repos.Session.Commit(); err != nil {
		return model.TokenPair{}, err
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	repos, done := open(s.db)
	defer done()

	return repos.Tokens.Revoke(ctx, refreshToken, true)
}

func (s *AuthService) Me(ctx context.Context, userID string) (model.AuthUser, error) {
	repos, done := open(s.db)
	defer done()

	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return model.AuthUser{}, err
	}
	return user.AuthUser(), nil
}

func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.New("UNAUTHORIZED", "invalid token signing method", "", http.StatusUnauthorized)
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.New("UNAUTHORIZED", "invalid token", "", http.StatusUnauthorized)
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.New("UNAUTHORIZED", "invalid token claims", "", http.StatusUnauthorized)
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, apierror.New("UNAUTHORIZED", "invalid token type", "", http.StatusUnauthorized)
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, apierror.New("UNAUTHORIZED", "invalid token subject", "", http.StatusUnauthorized)
	}

	return claims, nil
}

func (s *AuthService) newUser(email, password, fullName, role string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return model.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// issueTokenPair signs both tokens and stages the refresh token on the
// caller's session. The caller commits.
func (s *AuthService) issueTokenPair(ctx context.Context, repos *repository.Repositories, user model.User) (model.TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := s.signToken(jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"typ":   tokenTypeAccess,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.signToken(jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"typ":   tokenTypeRefresh,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.refreshTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := repos.Tokens.Store(ctx, refreshToken, user.ID, now.Add(s.refreshTTL), false); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         user.AuthUser(),
	}, nil
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// CleanExpiredTokens drops refresh tokens past their expiry.
func (s *AuthService) CleanExpiredTokens(ctx context.Context) (int64, error) {
	repos, done := open(s.db)
	defer done()

	return repos.Tokens.CleanExpired(ctx, true)
}

// StartTokenCleanup sweeps expired refresh tokens every interval until ctx
// is cancelled.
func (s *AuthService) StartTokenCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep := func() {
		n, err := s.CleanExpiredTokens(ctx)
		if err != nil {
			slog.Warn("refresh token cleanup failed", "error", err)
			return
		}
		if n > 0 {
			slog.Info("expired refresh tokens removed", "count", n)
		}
	}

	sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
