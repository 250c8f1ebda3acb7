package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/service"
)

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, meta, err := h.users.List(r.Context(), pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, model.UserListData{Items: users}, &meta)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	respond(w, http.StatusOK, user, err)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Update(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req)
	respond(w, http.StatusOK, user, err)
}

// Delete archives the account and removes it. Admins cannot delete themselves.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	note, err := deleteNote(r)
	if err != nil {
		writeError(w, err)
		return
	}

	archive, err := h.users.Delete(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), note)
	respond(w, http.StatusOK, archive, err)
}
