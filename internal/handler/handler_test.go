package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database/databasetest"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/event"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/middleware"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/service"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/pkg/apierror"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *model.APIError `json:"error"`
	Meta    *model.Meta     `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"restaurant not found", fmt.Errorf("load: %w", model.ErrRestaurantNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"archive not found", model.ErrArchiveNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"constraint violation", fmt.Errorf("delete restaurant: %w", model.ErrConstraintViolation), http.StatusConflict, "CONFLICT"},
		{"inactive user", model.ErrUserInactive, http.StatusForbidden, "FORBIDDEN"},
		{"forbidden", model.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"expired token", model.ErrTokenExpired, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"api error wins", apierror.Wrap(model.ErrUserAlreadyExists, "ALREADY_EXISTS", "email taken", http.StatusConflict), http.StatusConflict, "ALREADY_EXISTS"},
		{"bad request", apierror.BadRequest("name is required", "name"), http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestDeleteNote(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodDelete, "/x?note=closed+for+good", strings.NewReader(`{"note":"ignored"}`))
	note, err := deleteNote(req)
	require.NoError(t, err)
	assert.Equal(t, "closed for good", note)

	req = httptest.NewRequest(http.MethodDelete, "/x", strings.NewReader(`{"note":"from body"}`))
	note, err = deleteNote(req)
	require.NoError(t, err)
	assert.Equal(t, "from body", note)

	req = httptest.NewRequest(http.MethodDelete, "/x", nil)
	note, err = deleteNote(req)
	require.NoError(t, err)
	assert.Empty(t, note)

	req = httptest.NewRequest(http.MethodDelete, "/x", strings.NewReader(`{"note":`))
	_, err = deleteNote(req)
	assert.Error(t, err)
}

func TestPageFromQuery(t *testing.T) {
	t.Parallel()

	page := pageFromQuery(httptest.NewRequest(http.MethodGet, "/x?page=3&limit=abc", nil))
	assert.Equal(t, model.Page{Page: 3, Limit: model.DefaultPageLimit}, page)
}

type testServer struct {
	router http.Handler
	bus    *event.InMemoryBus
}

// withActor stands in for the auth middleware.
func withActor(actor model.Actor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &model.AuthClaims{UserID: actor.UserID, Email: actor.Email, Role: actor.Role}
			next.ServeHTTP(w, r.WithContext(middleware.WithClaims(r.Context(), claims)))
		})
	}
}

func newTestServer(t *testing.T, actor model.Actor) *testServer {
	t.Helper()

	db := databasetest.Open(t)
	bus := event.NewBus()
	restaurants := NewRestaurantHandler(service.NewRestaurantService(db, bus), service.NewDishService(db, bus))
	dishes := NewDishHandler(service.NewDishService(db, bus))
	archives := NewArchiveHandler(service.NewArchiveService(db, bus))

	r := chi.NewRouter()
	r.Use(withActor(actor))
	r.Get("/health", NewHealthHandler(db).Check)
	r.Get("/restaurants", restaurants.List)
	r.Post("/restaurants", restaurants.Create)
	r.Get("/restaurants/{id}", restaurants.Get)
	r.Delete("/restaurants/{id}", restaurants.Delete)
	r.Post("/restaurants/{id}/dishes", restaurants.CreateDish)
	r.Delete("/dishes/{id}", dishes.Delete)
	r.Get("/archives", archives.List)
	r.Get("/archives/{table}/{original_id}", archives.Get)
	r.Delete("/archives/{table}/{original_id}", archives.Delete)

	return &testServer{router: r, bus: bus}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createRestaurant(t *testing.T, name string) model.Restaurant {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/restaurants",
		fmt.Sprintf(`{"name":%q,"city":"Villa de Leyva","cuisine_type":"boyacense","price_range":2}`, name))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var rest model.Restaurant
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &rest))
	return rest
}

var testAdmin = model.Actor{UserID: "0b7d3c57-2f0e-4f7f-8d8e-4a4f3c6b1e10", Email: "admin@example.co", Role: model.RoleAdmin}

func TestRestaurantDelete_ArchivesAndPurges(t *testing.T) {
	s := newTestServer(t, testAdmin)
	rest := s.createRestaurant(t, "Casa de Piedra")

	rec := s.do(t, http.MethodDelete, "/restaurants/"+rest.ID+"?note=owner+retired", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var archive model.Archive
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &archive))
	assert.Equal(t, model.TableRestaurants, archive.OriginalTable)
	assert.Equal(t, rest.ID, archive.OriginalID)
	require.NotNil(t, archive.Note)
	assert.Equal(t, "owner retired", *archive.Note)
	require.NotNil(t, archive.DeletedBy)
	assert.Equal(t, testAdmin.UserID, *archive.DeletedBy)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/restaurants/"+rest.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/restaurants/"+rest.ID, "").Code)

	rec = s.do(t, http.MethodGet, "/archives/restaurants/"+rest.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/archives/restaurants/"+rest.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":true}`, string(decodeEnvelope(t, rec).Data))

	rec = s.do(t, http.MethodDelete, "/archives/restaurants/"+rest.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":false}`, string(decodeEnvelope(t, rec).Data))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/archives/restaurants/"+rest.ID, "").Code)
}

func TestRestaurantDelete_WithDishesConflicts(t *testing.T) {
	s := newTestServer(t, testAdmin)
	rest := s.createRestaurant(t, "Fonda Boyacense")

	rec := s.do(t, http.MethodPost, "/restaurants/"+rest.ID+"/dishes", `{"name":"Cocido boyacense","price":32000,"category":"principal"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var dish model.Dish
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &dish))

	rec = s.do(t, http.MethodDelete, "/restaurants/"+rest.ID, `{"note":"closing"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/restaurants/"+rest.ID, "").Code)

	rec = s.do(t, http.MethodGet, "/archives?table=restaurants", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, string(decodeEnvelope(t, rec).Data))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/dishes/"+dish.ID, "").Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/restaurants/"+rest.ID, "").Code)

	rec = s.do(t, http.MethodGet, "/archives", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list model.ArchiveListData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, model.TableRestaurants, list.Items[0].OriginalTable, "newest archive first")
}

func TestRestaurantEndpoints_Validation(t *testing.T) {
	s := newTestServer(t, testAdmin)

	rec := s.do(t, http.MethodPost, "/restaurants", `{"name":"","city":"Tunja"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/restaurants", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/archives?table=reviews", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRestaurantEndpoints_ForbiddenForUsers(t *testing.T) {
	s := newTestServer(t, model.Actor{UserID: "1d3c9a0e-7b1f-4d1f-9c55-7f4a3d2e6b21", Role: model.RoleUser})

	rec := s.do(t, http.MethodPost, "/restaurants", `{"name":"El Portal","city":"Paipa"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/restaurants?city=paipa", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 0, env.Meta.Total)
}
