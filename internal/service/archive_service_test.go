package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/event"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

func TestArchiveService_HardDeletePurges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rest := f.createRestaurant(t, "Para Purgar")

	events, unsubscribe := f.bus.Subscribe(event.TypeRestaurantArchived, event.TypeArchivePurged)
	defer unsubscribe()

	_, err := f.restaurants.Delete(ctx, adminActor, rest.ID, "")
	require.NoError(t, err)
	assert.Equal(t, event.TypeRestaurantArchived, (<-events).Type)

	removed, err := f.archives.HardDeleteByOriginalID(ctx, adminActor, model.TableRestaurants, rest.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, event.TypeArchivePurged, (<-events).Type)

	found, err := f.archives.FindByOriginalID(ctx, model.TableRestaurants, rest.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	removed, err = f.archives.HardDeleteByOriginalID(ctx, adminActor, model.TableRestaurants, rest.ID)
	require.NoError(t, err)
	assert.False(t, removed, "missing key reports false without failing")
}

func TestArchiveService_Guards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.archives.HardDeleteByOriginalID(ctx, model.Actor{UserID: "u1", Role: model.RoleUser}, model.TableRestaurants, "r1")
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.archives.FindByOriginalID(ctx, "reviews", "r1")
	assert.Error(t, err)

	_, err = f.archives.List(ctx, model.ArchiveFilter{OriginalTable: "reviews"})
	assert.Error(t, err)

	found, err := f.archives.FindByOriginalID(ctx, model.TableDishes, "never-archived")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFavoriteService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	favorites := NewFavoriteService(f.db)
	auth := newTestAuth(f.db)

	user, err := auth.Register(ctx, model.RegisterRequest{Email: "fan@example.co", Password: "boyaca2025"})
	require.NoError(t, err)
	actor := model.Actor{UserID: user.ID, Role: user.Role}
	rest := f.createRestaurant(t, "Preferido")

	assert.ErrorIs(t, favorites.Add(ctx, actor, "b7a3a0d4-5e7f-4a51-8d0e-0c7b1c1c9e10"), model.ErrRestaurantNotFound)
	require.NoError(t, favorites.Add(ctx, actor, rest.ID))

	items, meta, err := favorites.List(ctx, actor, model.Page{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, meta.Total)

	require.NoError(t, favorites.Remove(ctx, actor, rest.ID))
	assert.ErrorIs(t, favorites.Remove(ctx, actor, rest.ID), model.ErrFavoriteNotFound)
}
