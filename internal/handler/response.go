package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// respond writes err when set, data otherwise.
func respond(w http.ResponseWriter, status int, data any, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, status, data, nil)
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{model.ErrRestaurantNotFound, http.StatusNotFound, "NOT_FOUND", "Restaurant not found"},
	{model.ErrDishNotFound, http.StatusNotFound, "NOT_FOUND", "Dish not found"},
	{model.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND", "User not found"},
	{model.ErrOwnerNotFound, http.StatusNotFound, "NOT_FOUND", "Restaurant owner not found"},
	{model.ErrFavoriteNotFound, http.StatusNotFound, "NOT_FOUND", "Favorite not found"},
	{model.ErrArchiveNotFound, http.StatusNotFound, "NOT_FOUND", "Archive not found"},
	{model.ErrUserAlreadyExists, http.StatusConflict, "ALREADY_EXISTS", "User already exists"},
	{model.ErrConstraintViolation, http.StatusConflict, "CONFLICT", "The change conflicts with existing data"},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials"},
	{model.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required"},
	{model.ErrTokenNotFound, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token"},
	{model.ErrTokenExpired, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token"},
	{model.ErrUserInactive, http.StatusForbidden, "FORBIDDEN", "User is inactive"},
	{model.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "Access denied"},
	{model.ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST", "Invalid input"},
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	if apiErr, ok := apierror.As(err); ok {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if mapping, ok := lookupError(err); ok {
		status = mapping.status
		body.Code = mapping.code
		body.Message = mapping.message
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

func lookupError(err error) (errorMapping, bool) {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.target) {
			return mapping, true
		}
	}
	return errorMapping{}, false
}

// decodeJSON reads the request body into dst. An empty body is rejected
// unless allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := decoder.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return apierror.BadRequest("invalid JSON body", "")
	}
	return nil
}

func parseIntOrDefault(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func pageFromQuery(r *http.Request) model.Page {
	query := r.URL.Query()
	return model.Page{
		Page:  parseIntOrDefault(query.Get("page"), 1),
		Limit: parseIntOrDefault(query.Get("limit"), model.DefaultPageLimit),
	}
}

// deleteNote takes the archive note from ?note= or, failing that, a JSON body.
func deleteNote(r *http.Request) (string, error) {
	if note := strings.TrimSpace(r.URL.Query().Get("note")); note != "" {
		return note, nil
	}
	if r.Body == nil || r.ContentLength == 0 {
		return "", nil
	}

	var payload model.DeleteRequest
	if err := decodeJSON(r, &payload, true); err != nil {
		return "", err
	}
	return payload.Note, nil
}
