package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/service"
)

type RestaurantHandler struct {
	restaurants *service.RestaurantService
	dishes      *service.DishService
}

func NewRestaurantHandler(restaurants *service.RestaurantService, dishes *service.DishService) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, dishes: dishes}
}

func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := model.RestaurantFilter{
		City:        query.Get("city"),
		CuisineType: query.Get("cuisine_type"),
		Name:        query.Get("q"),
		Page:        pageFromQuery(r),
	}

	items, meta, err := h.restaurants.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.RestaurantListData{Items: items}, &meta)
}

func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.restaurants.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, restaurant, nil)
}

func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateRestaurantRequest
	if err := decodeJSON(r, &payload, false); err != nil {
		writeError(w, err)
		return
	}

	restaurant, err := h.restaurants.Create(r.Context(), actorFromRequest(r), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, restaurant, nil)
}

func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateRestaurantRequest
	if err := decodeJSON(r, &payload, false); err != nil {
		writeError(w, err)
		return
	}

	restaurant, err := h.restaurants.Update(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, restaurant, nil)
}

// Delete archives the restaurant before removing it and returns the archive.
func (h *RestaurantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	note, err := deleteNote(r)
	if err != nil {
		writeError(w, err)
		return
	}

	archive, err := h.restaurants.Delete(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), note)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, archive, nil)
}

func (h *RestaurantHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	items, err := h.dishes.ListByRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.DishListData{Items: items}, nil)
}

func (h *RestaurantHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateDishRequest
	if err := decodeJSON(r, &payload, false); err != nil {
		writeError(w, err)
		return
	}

	dish, err := h.dishes.Create(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dish, nil)
}

func (h *RestaurantHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.restaurants.ListOwners(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"items": owners}, nil)
}

func (h *RestaurantHandler) AssignOwner(w http.ResponseWriter, r *http.Request) {
	var payload model.AssignOwnerRequest
	if err := decodeJSON(r, &payload, false); err != nil {
		writeError(w, err)
		return
	}

	restaurantID := chi.URLParam(r, "id")
	if err := h.restaurants.AssignOwner(r.Context(), actorFromRequest(r), restaurantID, payload.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"restaurant_id": restaurantID, "user_id": payload.UserID}, nil)
}

func (h *RestaurantHandler) RemoveOwner(w http.ResponseWriter, r *http.Request) {
	err := h.restaurants.RemoveOwner(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"removed": true}, nil)
}

// Owned lists the restaurants the caller owns.
func (h *RestaurantHandler) Owned(w http.ResponseWriter, r *http.Request) {
	items, err := h.restaurants.Owned(r.Context(), actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.RestaurantListData{Items: items}, nil)
}
