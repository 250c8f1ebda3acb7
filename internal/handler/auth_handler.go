package handler

import (
	"net/http"
	"strings"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/middleware"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/service"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/pkg/apierror"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Email, req.Password)
	respond(w, http.StatusOK, pair, err)
}

// Register is public and always creates a plain user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	respond(w, http.StatusCreated, user, err)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := refreshTokenFromBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), token)
	respond(w, http.StatusOK, pair, err)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := refreshTokenFromBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.auth.Logout(r.Context(), token)
	respond(w, http.StatusOK, map[string]bool{"logged_out": true}, err)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	user, err := h.auth.Me(r.Context(), claims.UserID)
	respond(w, http.StatusOK, user, err)
}

func refreshTokenFromBody(r *http.Request) (string, error) {
	var req model.RefreshRequest
	if err := decodeJSON(r, &req, false); err != nil {
		return "", err
	}
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		return "", apierror.BadRequest("refresh_token is required", "refresh_token")
	}
	return token, nil
}
