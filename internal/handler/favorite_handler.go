package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/service"
)

type FavoriteHandler struct {
	service *service.FavoriteService
}

func NewFavoriteHandler(service *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	items, meta, err := h.service.List(r.Context(), actorFromRequest(r), pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.RestaurantListData{Items: items}, &meta)
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurant_id")
	if err := h.service.Add(r.Context(), actorFromRequest(r), restaurantID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"restaurant_id": restaurantID}, nil)
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), actorFromRequest(r), chi.URLParam(r, "restaurant_id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"removed": true}, nil)
}
