//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type restaurantBody struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type archiveBody struct {
	ID            string         `json:"id"`
	OriginalTable string         `json:"original_table"`
	OriginalID    string         `json:"original_id"`
	Data          map[string]any `json:"data"`
	Note          *string        `json:"note"`
	DeletedBy     *string        `json:"deleted_by"`
}

func createRestaurant(t *testing.T, baseURL, token, name string) restaurantBody {
	t.Helper()

	resp := doJSON(t, http.MethodPost, baseURL+"/api/v1/restaurants", map[string]any{
		"name":         name,
		"city":         "Tunja",
		"cuisine_type": "boyacense",
		"price_range":  2,
		"location":     map[string]float64{"latitude": 5.5353, "longitude": -73.3678},
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rest restaurantBody
	decodeData(t, resp, &rest)
	return rest
}

func TestRestaurantArchiveLifecycle(t *testing.T) {
	server, token, _ := newAuthedServer(t)
	base := server.URL + "/api/v1"
	rest := createRestaurant(t, server.URL, token, "La Casona")

	dishResp := doJSON(t, http.MethodPost, base+"/restaurants/"+rest.ID+"/dishes",
		map[string]any{"name": "Cuchuco de trigo", "price": 18000, "category": "sopa"}, token)
	require.Equal(t, http.StatusCreated, dishResp.StatusCode)
	var dish struct {
		ID string `json:"id"`
	}
	decodeData(t, dishResp, &dish)

	blocked := doJSON(t, http.MethodDelete, base+"/restaurants/"+rest.ID+"?note=closed", nil, token)
	require.Equal(t, http.StatusConflict, blocked.StatusCode)
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, base+"/restaurants/"+rest.ID, nil, "").StatusCode)
	assert.Equal(t, http.StatusNotFound,
		doJSON(t, http.MethodGet, base+"/archives/restaurants/"+rest.ID, nil, token).StatusCode,
		"failed delete must not leave an archive behind")

	require.Equal(t, http.StatusOK, doJSON(t, http.MethodDelete, base+"/dishes/"+dish.ID, nil, token).StatusCode)

	deleted := doJSON(t, http.MethodDelete, base+"/restaurants/"+rest.ID, map[string]string{"note": "closed"}, token)
	require.Equal(t, http.StatusOK, deleted.StatusCode)
	var archive archiveBody
	decodeData(t, deleted, &archive)
	assert.Equal(t, "restaurants", archive.OriginalTable)
	assert.Equal(t, rest.ID, archive.OriginalID)
	assert.Equal(t, "La Casona", archive.Data["name"])
	require.NotNil(t, archive.Note)
	assert.Equal(t, "closed", *archive.Note)
	require.NotNil(t, archive.DeletedBy)

	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, base+"/restaurants/"+rest.ID, nil, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodDelete, base+"/restaurants/"+rest.ID, nil, token).StatusCode)

	listResp := doJSON(t, http.MethodGet, base+"/archives?table=restaurants&original_id="+rest.ID, nil, token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Items []archiveBody `json:"items"`
	}
	decodeData(t, listResp, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, archive.ID, list.Items[0].ID)

	purge := doJSON(t, http.MethodDelete, base+"/archives/restaurants/"+rest.ID, nil, token)
	require.Equal(t, http.StatusOK, purge.StatusCode)
	var purged struct {
		Deleted bool `json:"deleted"`
	}
	decodeData(t, purge, &purged)
	assert.True(t, purged.Deleted)

	again := doJSON(t, http.MethodDelete, base+"/archives/restaurants/"+rest.ID, nil, token)
	require.Equal(t, http.StatusOK, again.StatusCode)
	decodeData(t, again, &purged)
	assert.False(t, purged.Deleted)
}

func TestOwnerManagesOwnRestaurant(t *testing.T) {
	server, adminToken, _ := newAuthedServer(t)
	base := server.URL + "/api/v1"
	mine := createRestaurant(t, server.URL, adminToken, "Pozo Azul")
	other := createRestaurant(t, server.URL, adminToken, "El Zaguán")

	registerResp := doJSON(t, http.MethodPost, base+"/auth/register", map[string]string{
		"email": "duena@example.co", "password": "Password123!", "full_name": "Dueña",
	}, "")
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)
	var owner struct {
		ID string `json:"id"`
	}
	decodeData(t, registerResp, &owner)

	assign := doJSON(t, http.MethodPost, base+"/restaurants/"+mine.ID+"/owners",
		map[string]string{"user_id": owner.ID}, adminToken)
	require.Equal(t, http.StatusCreated, assign.StatusCode)

	// The role change only shows up in a freshly issued token.
	ownerToken, _ := login(t, server, "duena@example.co", "Password123!")

	update := doJSON(t, http.MethodPut, base+"/restaurants/"+mine.ID, map[string]string{"description": "Trucha al ajillo"}, ownerToken)
	assert.Equal(t, http.StatusOK, update.StatusCode)

	foreign := doJSON(t, http.MethodPut, base+"/restaurants/"+other.ID, map[string]string{"description": "x"}, ownerToken)
	assert.Equal(t, http.StatusForbidden, foreign.StatusCode)

	deleteAttempt := doJSON(t, http.MethodDelete, base+"/restaurants/"+mine.ID, nil, ownerToken)
	assert.Equal(t, http.StatusForbidden, deleteAttempt.StatusCode)

	owned := doJSON(t, http.MethodGet, base+"/me/restaurants", nil, ownerToken)
	require.Equal(t, http.StatusOK, owned.StatusCode)
	var ownedList struct {
		Items []restaurantBody `json:"items"`
	}
	decodeData(t, owned, &ownedList)
	require.Len(t, ownedList.Items, 1)
	assert.Equal(t, mine.ID, ownedList.Items[0].ID)

	fav := doJSON(t, http.MethodPost, base+"/me/favorites/"+other.ID, nil, ownerToken)
	require.Equal(t, http.StatusCreated, fav.StatusCode)
	favs := doJSON(t, http.MethodGet, base+"/me/favorites", nil, ownerToken)
	require.Equal(t, http.StatusOK, favs.StatusCode)
	var favList struct {
		Items []restaurantBody `json:"items"`
	}
	decodeData(t, favs, &favList)
	require.Len(t, favList.Items, 1)
	assert.Equal(t, other.ID, favList.Items[0].ID)
}

func TestUserArchiveOmitsPasswordHash(t *testing.T) {
	server, adminToken, _ := newAuthedServer(t)
	base := server.URL + "/api/v1"

	registerResp := doJSON(t, http.MethodPost, base+"/auth/register", map[string]string{
		"email": "temporal@example.co", "password": "Password123!",
	}, "")
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)
	var user struct {
		ID string `json:"id"`
	}
	decodeData(t, registerResp, &user)

	deleted := doJSON(t, http.MethodDelete, base+"/users/"+user.ID+"?note=gdpr+request", nil, adminToken)
	require.Equal(t, http.StatusOK, deleted.StatusCode)
	var archive archiveBody
	decodeData(t, deleted, &archive)
	assert.Equal(t, "users", archive.OriginalTable)
	assert.Equal(t, "temporal@example.co", archive.Data["email"])
	assert.NotContains(t, archive.Data, "password_hash")
	assert.NotContains(t, archive.Data, "PasswordHash")

	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, base+"/users/"+user.ID, nil, adminToken).StatusCode)
}
