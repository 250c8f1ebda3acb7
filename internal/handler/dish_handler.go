package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/service"
)

type DishHandler struct {
	service *service.DishService
}

func NewDishHandler(service *service.DishService) *DishHandler {
	return &DishHandler{service: service}
}

func (h *DishHandler) Get(w http.ResponseWriter, r *http.Request) {
	dish, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dish, nil)
}

func (h *DishHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateDishRequest
	if err := decodeJSON(r, &payload, false); err != nil {
		writeError(w, err)
		return
	}

	dish, err := h.service.Update(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dish, nil)
}

func (h *DishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	note, err := deleteNote(r)
	if err != nil {
		writeError(w, err)
		return
	}

	archive, err := h.service.Delete(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), note)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, archive, nil)
}
