package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/service"
)

type ArchiveHandler struct {
	service *service.ArchiveService
}

func NewArchiveHandler(service *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{service: service}
}

func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := model.ArchiveFilter{
		OriginalTable: query.Get("table"),
		OriginalID:    query.Get("original_id"),
		Limit:         parseIntOrDefault(query.Get("limit"), 0),
	}

	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ArchiveListData{Items: items}, nil)
}

func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	archive, err := h.service.FindByOriginalID(r.Context(), chi.URLParam(r, "table"), chi.URLParam(r, "original_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if archive == nil {
		writeError(w, model.ErrArchiveNotFound)
		return
	}

	writeSuccess(w, http.StatusOK, archive, nil)
}

// Delete purges an archive row for good. A missing key reports deleted=false.
func (h *ArchiveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.HardDeleteByOriginalID(r.Context(), actorFromRequest(r),
		chi.URLParam(r, "table"), chi.URLParam(r, "original_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": deleted}, nil)
}
